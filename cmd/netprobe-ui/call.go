package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"

	"github.com/netprobe/netprobe-ui/internal/apiclient"
)

func newCallCmd() *cobra.Command {
	var (
		data    string
		headers []string
		query   []string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "call METHOD PATH",
		Short: "Send one request to the API and print the response payload",
		Example: `  netprobe-ui call GET /tags/router --query vendor=cisco
  netprobe-ui call POST /ipv6/detection --data '{"prefix":"2001:db8::/32"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(args[0], args[1], data, headers, query)
			if err != nil {
				return err
			}

			e, err := loadEnv()
			if err != nil {
				return err
			}
			client, err := e.apiClient()
			if err != nil {
				return err
			}

			payload, err := client.Send(req)
			if err != nil {
				if msg, ok := apiclient.Message(err); ok {
					return errors.New(msg)
				}
				return err
			}

			return printPayload(cmd.OutOrStdout(), payload, !noColor)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra request header (Key: Value)")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter (key=value)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "print the payload without syntax highlighting")

	return cmd
}

func buildRequest(method, path, data string, headers, query []string) (apiclient.Request, error) {
	req := apiclient.Request{
		Method: strings.ToUpper(method),
		Path:   path,
	}

	if data != "" {
		if !json.Valid([]byte(data)) {
			return req, errors.New("--data must be valid JSON")
		}
		req.Body = json.RawMessage(data)
	}

	if len(headers) > 0 {
		req.Header = make(http.Header, len(headers))
		for _, h := range headers {
			k, v, ok := strings.Cut(h, ":")
			k = strings.TrimSpace(k)
			if !ok || k == "" {
				return req, fmt.Errorf("invalid header %q, expected Key: Value", h)
			}
			req.Header.Add(k, strings.TrimSpace(v))
		}
	}

	if len(query) > 0 {
		req.Query = make(url.Values, len(query))
		for _, q := range query {
			k, v, ok := strings.Cut(q, "=")
			if !ok || k == "" {
				return req, fmt.Errorf("invalid query parameter %q, expected key=value", q)
			}
			req.Query.Add(k, v)
		}
	}

	return req, nil
}

// printPayload writes the payload, indented and highlighted when it is JSON.
func printPayload(w io.Writer, payload json.RawMessage, color bool) error {
	if len(payload) == 0 {
		return nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, payload, "", "  "); err != nil {
		_, err := fmt.Fprintln(w, string(payload))
		return err
	}
	pretty.WriteByte('\n')

	if !color {
		_, err := pretty.WriteTo(w)
		return err
	}
	return quick.Highlight(w, pretty.String(), "json", "terminal256", "monokai")
}

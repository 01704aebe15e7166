package apiclient

import (
	"golang.org/x/text/language"

	"github.com/netprobe/netprobe-ui/internal/i18n"
)

// FallbackMessage is used when a failure carries neither a response message nor a description.
const FallbackMessage = i18n.RequestFailed

// LocalizedFallback returns the fallback message in the given language (English when unsupported).
func LocalizedFallback(tag language.Tag) string {
	return i18n.T(tag, FallbackMessage)
}

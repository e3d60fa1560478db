// Package share turns a lead into messenger deep links and opens them.
package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/alkime/promo/internal/lead"
)

// ErrUnknownPlatform is returned for a messenger we don't have a deep link for.
var ErrUnknownPlatform = errors.New("unknown share platform")

// Platform is a messenger that accepts pre-filled text via a deep link.
type Platform string

const (
	Telegram Platform = "telegram"
	WhatsApp Platform = "whatsapp"
)

// Platforms returns all supported platforms in display order.
func Platforms() []Platform {
	return []Platform{Telegram, WhatsApp}
}

// DisplayName returns the messenger's brand name.
func (p Platform) DisplayName() string {
	switch p {
	case Telegram:
		return "Telegram"
	case WhatsApp:
		return "WhatsApp"
	default:
		return string(p)
	}
}

// ParsePlatform maps a name (e.g., "telegram") to a Platform.
func ParsePlatform(name string) (Platform, error) {
	switch Platform(strings.ToLower(name)) {
	case Telegram:
		return Telegram, nil
	case WhatsApp:
		return WhatsApp, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
}

// Message renders the lead announcement sent to the messenger.
func Message(fd lead.FormData) string {
	return "IMPERIA Промо - Новый лид:\n" +
		"Родитель: " + fd.ParentName + "\n" +
		"Ребенок: " + fd.ChildName + "\n" +
		"Возраст: " + fd.Age
}

// URL builds the deep link for the platform. pageURL is only used by Telegram,
// which attaches it to the shared message.
func URL(p Platform, fd lead.FormData, pageURL string) (string, error) {
	text := EncodeURIComponent(Message(fd))

	switch p {
	case Telegram:
		return "https://t.me/share/url?url=" + EncodeURIComponent(pageURL) + "&text=" + text, nil
	case WhatsApp:
		return "https://wa.me/?text=" + text, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, string(p))
	}
}

// EncodeURIComponent escapes s the way browsers' encodeURIComponent does:
// everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded as UTF-8
// and spaces become %20.
func EncodeURIComponent(s string) string {
	// QueryEscape leaves only the unreserved set; a literal '+' in s is already %2B.
	return componentFixups.Replace(url.QueryEscape(s))
}

//nolint:gochecknoglobals // immutable replacer
var componentFixups = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Opener opens a URL outside the application.
type Opener interface {
	Open(ctx context.Context, rawURL string) error
}

// Dispatcher builds deep links and hands them to an Opener.
type Dispatcher struct {
	opener  Opener
	pageURL string
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher. pageURL is attached to Telegram shares.
func NewDispatcher(opener Opener, pageURL string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		opener:  opener,
		pageURL: pageURL,
		logger:  logger,
	}
}

// Share opens the platform's deep link pre-filled with the lead and returns
// the link. Delivery is never confirmed.
func (d *Dispatcher) Share(ctx context.Context, p Platform, fd lead.FormData) (string, error) {
	link, err := URL(p, fd, d.pageURL)
	if err != nil {
		return "", err
	}

	if err := d.opener.Open(ctx, link); err != nil {
		d.logger.Warn("failed to open share link", "platform", string(p), "error", err)
		return link, fmt.Errorf("failed to open %s link: %w", p.DisplayName(), err)
	}

	d.logger.Info("share link opened", "platform", string(p))

	return link, nil
}

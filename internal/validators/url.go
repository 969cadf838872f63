package validators

import (
	"net/url"
	"strings"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/dmitrijs2005/lightningpass/internal/rules"
)

// NormalizeURL turns user input into a canonical http(s) URL. Input without
// a scheme is assumed to be https. Scheme and host are lower-cased.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !rules.NonWhitespace.MatchString(raw) {
		return "", common.ErrInvalidURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", common.ErrInvalidURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", common.ErrInvalidURL
	}
	if u.User != nil {
		return "", common.ErrInvalidURL
	}

	host := strings.ToLower(u.Hostname())
	if err := validate.Var(host, rules.HostTag); err != nil {
		return "", common.ErrInvalidURL
	}
	if strings.ContainsRune(host, ':') {
		host = "[" + host + "]"
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host

	return u.String(), nil
}

package filterstate

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// LinkScheme is the URL scheme of shareable deep links.
const LinkScheme = "pulse"

// FormatLink renders a view's location parameters as a shareable
// pulse:// link. Parameters are emitted in sorted order so equal state
// yields an identical link.
func FormatLink(view string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := url.Values{}
	for _, k := range keys {
		values.Set(k, params[k])
	}
	u := url.URL{Scheme: LinkScheme, Host: view, RawQuery: values.Encode()}
	return u.String()
}

// ParseLink extracts the location parameters from a shared link. A bare
// query string is accepted too, so a fragment copied out of a longer
// link still works. Repeated keys keep the first value.
func ParseLink(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty link")
	}
	query := raw
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing link: %w", err)
		}
		if u.Scheme != LinkScheme {
			return nil, fmt.Errorf("unsupported link scheme %q", u.Scheme)
		}
		query = u.RawQuery
	} else if i := strings.IndexByte(raw, '?'); i >= 0 {
		query = raw[i+1:]
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("parsing link parameters: %w", err)
	}
	params := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	return params, nil
}

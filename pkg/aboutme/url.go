package aboutme

import (
	"net/url"
	"strings"
)

// BuildURL renders the request URL. Empty segments are dropped instead of
// leaving an empty path element, and the query is appended only when present.
func (c *Client) BuildURL(req Request) string {
	return buildURL(c.cfg.BaseURL, []string{
		c.cfg.Version,
		c.cfg.Format,
		req.ObjectType,
		req.Action,
		req.Object,
		req.SubType,
	}, req.Query)
}

func buildURL(base string, segments []string, query map[string]string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	if len(query) > 0 {
		values := make(url.Values, len(query))
		for k, v := range query {
			values.Set(k, v)
		}
		b.WriteByte('?')
		b.WriteString(values.Encode())
	}
	return b.String()
}

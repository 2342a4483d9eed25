package vlr

import (
	"net/url"
	"strings"
)

type Param struct {
	Key   string
	Value string
}

// Params are query parameters in the order the caller gave them. The order is
// part of the cache key, so it is never sorted.
type Params []Param

func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

func (p Params) Encode() string {
	values := make([]string, 0, len(p))
	for _, param := range p {
		values = append(values, url.QueryEscape(param.Key)+"="+url.QueryEscape(param.Value))
	}
	return strings.Join(values, "&")
}

func (p Params) fragment() string {
	if len(p) == 0 {
		return "no_params"
	}
	pairs := make([]string, 0, len(p))
	for _, param := range p {
		pairs = append(pairs, param.Key+"="+param.Value)
	}
	return strings.Join(pairs, "_")
}

// CacheKey names the cache entry for a request: the endpoint with path
// separators turned into underscores, then the parameter fragment.
func CacheKey(endpoint string, params Params) string {
	return strings.ReplaceAll(endpoint, "/", "_") + "_" + params.fragment()
}

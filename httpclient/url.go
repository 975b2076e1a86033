package httpclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/kbukum/engineconnector/errors"
)

// Query holds query parameters. Strings are sent verbatim, maps, slices and
// structs are sent as one JSON-encoded value, nil values are dropped.
type Query map[string]any

// Multi is a query value sent as one key=value pair per element, e.g. names=a&names=b.
type Multi []string

// BuildURL assembles <protocol>://<server>:<port>/<api_version><endpoint>[?query].
// The version prefix is applied once: an endpoint that already carries it is
// left as is.
func BuildURL(cfg ConnectionConfig, endpoint string, query Query) (string, error) {
	if strings.TrimSpace(cfg.ServerAddress) == "" {
		return "", errors.MissingParameter("server_address")
	}

	path := VersionedPath(cfg.APIVersion, endpoint)
	raw := cfg.BaseURL() + path

	encoded, err := encodeQuery(query)
	if err != nil {
		return "", errors.URLBuild(endpoint, err)
	}
	if encoded != "" {
		raw += "?" + encoded
	}

	if _, err := url.Parse(raw); err != nil {
		return "", errors.URLBuild(endpoint, err)
	}
	return raw, nil
}

// VersionedPath normalizes endpoint to a single leading slash and prefixes it
// with /<apiVersion> unless already present.
func VersionedPath(apiVersion, endpoint string) string {
	path := "/" + strings.TrimLeft(endpoint, "/")
	if apiVersion == "" {
		return path
	}
	prefix := "/" + strings.Trim(apiVersion, "/")
	if path == prefix || strings.HasPrefix(path, prefix+"/") {
		return path
	}
	return prefix + path
}

func encodeQuery(query Query) (string, error) {
	if len(query) == 0 {
		return "", nil
	}
	values := url.Values{}
	for key, value := range query {
		if multi, ok := value.(Multi); ok {
			for _, s := range multi {
				values.Add(key, s)
			}
			continue
		}
		s, keep, err := queryValue(value)
		if err != nil {
			return "", fmt.Errorf("query parameter %q: %w", key, err)
		}
		if keep {
			values.Set(key, s)
		}
	}
	// Encode sorts by key.
	return values.Encode(), nil
}

func queryValue(value any) (string, bool, error) {
	if value == nil {
		return "", false, nil
	}
	switch v := value.(type) {
	case string:
		return v, true, nil
	case json.RawMessage:
		return string(v), true, nil
	case fmt.Stringer:
		if isNilPointer(value) {
			return "", false, nil
		}
		return v.String(), true, nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		data, err := json.Marshal(rv.Interface())
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	case reflect.String:
		return rv.String(), true, nil
	default:
		return fmt.Sprint(rv.Interface()), true, nil
	}
}

func isNilPointer(value any) bool {
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

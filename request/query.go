package request

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// EncodeQuery renders query parameters in bracket notation, the convention
// REST resource servers use for nested filters:
//
//	{"filter": {"where": {"name": "x"}, "limit": 2}}
//	=> filter[limit]=2&filter[where][name]=x
//
// Slices use indices (k[0]=a&k[1]=b). Keys are sorted.
func EncodeQuery(query map[string]any) string {
	return Flatten(query).Encode()
}

// Flatten converts nested query parameters into url.Values using bracket
// notation keys.
func Flatten(query map[string]any) url.Values {
	values := url.Values{}
	for k, v := range query {
		flattenInto(values, k, v)
	}
	return values
}

func flattenInto(values url.Values, key string, v any) {
	switch val := v.(type) {
	case nil:
		values.Add(key, "")
	case string:
		values.Add(key, val)
	case bool:
		values.Add(key, strconv.FormatBool(val))
	case float64:
		values.Add(key, strconv.FormatFloat(val, 'f', -1, 64))
	case float32:
		values.Add(key, strconv.FormatFloat(float64(val), 'f', -1, 32))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		values.Add(key, fmt.Sprintf("%d", val))
	case json.Number:
		values.Add(key, val.String())
	case map[string]any:
		for k, sub := range val {
			flattenInto(values, key+"["+k+"]", sub)
		}
	case []any:
		for i, sub := range val {
			flattenInto(values, key+"["+strconv.Itoa(i)+"]", sub)
		}
	case []string:
		for i, sub := range val {
			values.Add(key+"["+strconv.Itoa(i)+"]", sub)
		}
	default:
		// Structs and typed maps go through their JSON shape.
		data, err := json.Marshal(val)
		if err != nil {
			values.Add(key, fmt.Sprintf("%v", val))
			return
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			values.Add(key, string(data))
			return
		}
		flattenInto(values, key, generic)
	}
}

// Package json centralizes JSON (de)serialization on sonic, the
// high-throughput drop-in encoding/json replacement used for BoltDB blobs
// and HTTP payloads alike.
package json

import "github.com/bytedance/sonic"

var api = sonic.ConfigStd

func Marshal(v interface{}) ([]byte, error) {
	return api.Marshal(v)
}

func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v interface{}) error {
	return api.Unmarshal(data, v)
}

func MarshalString(v interface{}) (string, error) {
	b, err := api.Marshal(v)
	return string(b), err
}

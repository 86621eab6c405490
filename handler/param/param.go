package param

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"lending/pkg/fixed"

	"github.com/gorilla/schema"
	"github.com/spf13/cast"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	// invalid values are left unconverted and reported by the decoder
	d.RegisterConverter(fixed.Zero, func(s string) reflect.Value {
		v, err := fixed.NewFromString(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(v)
	})
	d.RegisterConverter(false, func(s string) reflect.Value {
		v, err := cast.ToBoolE(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(v)
	})
	return d
}

// Binding decodes query params for GET requests, form or json bodies otherwise
func Binding(r *http.Request, v interface{}) error {
	if r.Method == http.MethodGet {
		return decoder.Decode(v, r.URL.Query())
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return err
		}

		return decoder.Decode(v, r.PostForm)
	}

	return json.NewDecoder(r.Body).Decode(v)
}

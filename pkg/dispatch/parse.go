package dispatch

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedReply is returned when a model reply is not a decision object.
var ErrMalformedReply = errors.New("malformed model reply")

// fenceMarkers are removed from replies in this order.
var fenceMarkers = []string{"```json", "```"}

// Decision is the model's choice of capability and positional arguments.
type Decision struct {
	Function string
	Args     []any
}

// StripFences removes markdown code-fence markers and surrounding whitespace.
func StripFences(reply string) string {
	for _, m := range fenceMarkers {
		reply = strings.ReplaceAll(reply, m, "")
	}
	return strings.TrimSpace(reply)
}

// ParseDecision parses {"function": "<key>", "args": [...]}. Both fields are
// required; JSON numbers become float64.
func ParseDecision(text string) (Decision, error) {
	if !gjson.Valid(text) {
		return Decision{}, ErrMalformedReply
	}
	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return Decision{}, ErrMalformedReply
	}

	fn := doc.Get("function")
	if fn.Type != gjson.String {
		return Decision{}, ErrMalformedReply
	}
	args := doc.Get("args")
	if !args.IsArray() {
		return Decision{}, ErrMalformedReply
	}

	d := Decision{Function: fn.String(), Args: []any{}}
	for _, a := range args.Array() {
		d.Args = append(d.Args, a.Value())
	}
	return d, nil
}

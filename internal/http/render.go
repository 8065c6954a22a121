package http

import (
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
)

const jsonContentType = "application/json"

// writeJSONError writes an error body from middleware, outside of Huma's response pipeline.
func writeJSONError(ctx huma.Context, status int, message string) error {
	body, err := json.Marshal(&apiError{status: status, Message: message})
	if err != nil {
		return eris.Wrap(err, "encoding error response")
	}

	ctx.SetHeader("Content-Type", jsonContentType)
	ctx.SetStatus(status)
	if _, err := ctx.BodyWriter().Write(body); err != nil {
		return eris.Wrap(err, "writing error response")
	}

	return nil
}

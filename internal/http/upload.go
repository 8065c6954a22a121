package http

import (
	"context"
	"mime/multipart"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
)

const uploadField = "file"

type uploadInput struct {
	RawBody multipart.Form
}

type uploadBody struct {
	URL string `json:"url" doc:"Public path of the stored file"`
}

type uploadOutput struct {
	Body uploadBody
}

func (s *Server) registerUploadRoute() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "upload-file",
		Method:       stdhttp.MethodPost,
		Path:         "/api/upload",
		Summary:      "Upload an image or video",
		Tags:         []string{"Uploads"},
		MaxBodyBytes: s.uploadMaxBytes,
	}, s.uploadHandler)
}

func (s *Server) uploadHandler(ctx context.Context, input *uploadInput) (*uploadOutput, error) {
	identity := auth.FromContext(ctx)
	if err := auth.Require(identity, auth.RoleUser); err != nil {
		return nil, authError(err)
	}

	files := input.RawBody.File[uploadField]
	if len(files) == 0 || files[0] == nil {
		return nil, badRequest("No file provided")
	}

	header := files[0]
	url, err := s.uploads.Save(ctx, header)
	if err != nil {
		return nil, s.translateError(ctx, err, "upload file", errorMessages{Label: "File"}, logrus.Fields{
			"file":    header.Filename,
			"user_id": identity.UserID,
		})
	}

	return &uploadOutput{Body: uploadBody{URL: url}}, nil
}

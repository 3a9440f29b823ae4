package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	stdhttp "net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"portfolio/app/internal/media"
)

const (
	uploadFileField   = "file"
	uploadFolderField = "folder"
	// multipartOverhead leaves room for boundaries and the folder field.
	multipartOverhead = 64 << 10
)

type uploadInput struct {
	ContentType string `header:"Content-Type"`
	RawBody     []byte
}

type uploadOutput struct {
	Body struct {
		URL  string           `json:"url"`
		File media.StoredFile `json:"file"`
	}
}

type imageListOutput struct {
	Body []media.StoredFile
}

type imageDeleteInput struct {
	Path string `query:"path" required:"true" doc:"Object path returned by the upload"`
}

func (s *Server) registerImageRoutes() {
	upload := s.adminOperation("upload-image", stdhttp.MethodPost, "/api/admin/images", "Upload an image",
		stdhttp.StatusBadRequest, stdhttp.StatusRequestEntityTooLarge)
	upload.DefaultStatus = stdhttp.StatusCreated
	upload.MaxBodyBytes = s.uploader.MaxBytes() + multipartOverhead
	upload.RequestBody = &huma.RequestBody{
		Required: true,
		Content: map[string]*huma.MediaType{
			"multipart/form-data": {
				Schema: &huma.Schema{
					Type: "object",
					Properties: map[string]*huma.Schema{
						uploadFileField:   {Type: "string", Format: "binary"},
						uploadFolderField: {Type: "string"},
					},
					Required: []string{uploadFileField},
				},
			},
		},
	}
	huma.Register(s.api, upload, s.uploadImageHandler)

	huma.Register(s.api, s.adminOperation("list-images", stdhttp.MethodGet, "/api/admin/images", "List uploaded images"),
		func(ctx context.Context, _ *struct{}) (*imageListOutput, error) {
			files, err := s.uploader.List(ctx)
			if err != nil {
				return nil, s.apiError(ctx, err, "listing uploads", nil)
			}
			return &imageListOutput{Body: files}, nil
		})

	remove := s.adminOperation("delete-image", stdhttp.MethodDelete, "/api/admin/images", "Delete an uploaded image", stdhttp.StatusNotFound)
	remove.DefaultStatus = stdhttp.StatusNoContent
	huma.Register(s.api, remove,
		func(ctx context.Context, input *imageDeleteInput) (*struct{}, error) {
			if err := s.uploader.Delete(ctx, input.Path); err != nil {
				return nil, s.apiError(ctx, err, "deleting upload", logrus.Fields{"path": input.Path})
			}
			return nil, nil
		})
}

func (s *Server) uploadImageHandler(ctx context.Context, input *uploadInput) (*uploadOutput, error) {
	upload, err := parseUpload(input.ContentType, input.RawBody, s.uploader.MaxBytes())
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	file, err := s.uploader.Upload(ctx, upload)
	if err != nil {
		return nil, s.apiError(ctx, err, "uploading image", logrus.Fields{"filename": upload.Filename})
	}

	out := &uploadOutput{}
	out.Body.URL = file.URL
	out.Body.File = file
	return out, nil
}

// parseUpload reads the file part and the optional folder from a multipart body.
func parseUpload(contentType string, body []byte, maxBytes int64) (media.Upload, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" || params["boundary"] == "" {
		return media.Upload{}, eris.New("expected a multipart/form-data body")
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	var upload media.Upload
	found := false
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return media.Upload{}, eris.Wrap(err, "reading multipart body")
		}

		switch part.FormName() {
		case uploadFileField:
			data, err := io.ReadAll(io.LimitReader(part, maxBytes+1))
			if err != nil {
				return media.Upload{}, eris.Wrap(err, "reading uploaded file")
			}
			upload.Data = data
			upload.Filename = part.FileName()
			upload.ContentType = part.Header.Get("Content-Type")
			if upload.ContentType == "" {
				upload.ContentType = stdhttp.DetectContentType(data)
			}
			found = true
		case uploadFolderField:
			value, err := io.ReadAll(io.LimitReader(part, 256))
			if err != nil {
				return media.Upload{}, eris.Wrap(err, "reading folder field")
			}
			upload.Folder = strings.TrimSpace(string(value))
		}
		_ = part.Close()
	}

	if !found {
		return media.Upload{}, eris.New("no file uploaded")
	}
	return upload, nil
}

// internal/services/cloudinary_host.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/utils"
)

var errCloudinaryNotConfigured = errors.New("cloudinary not configured")

// CloudinaryHost talks to a Cloudinary style upload API: unsigned uploads with
// an upload preset, deletes signed with the API secret.
type CloudinaryHost struct {
	cfg    config.ImageConfig
	client *http.Client
	now    func() time.Time
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Result    string `json:"result"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewCloudinaryHost(cfg config.ImageConfig) *CloudinaryHost {
	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &CloudinaryHost{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

func (h *CloudinaryHost) endpoint(action string) string {
	return fmt.Sprintf("%s/%s/image/%s", strings.TrimRight(h.cfg.APIBase, "/"), h.cfg.CloudName, action)
}

func (h *CloudinaryHost) Upload(ctx context.Context, file UploadFile) (string, error) {
	if h.cfg.CloudName == "" || h.cfg.UploadPreset == "" {
		return "", errCloudinaryNotConfigured
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.WriteField("upload_preset", h.cfg.UploadPreset); err != nil {
		return "", fmt.Errorf("failed to write upload preset: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close form: %w", err)
	}

	var resp cloudinaryResponse
	if err := h.do(ctx, h.endpoint("upload"), writer.FormDataContentType(), &body, &resp); err != nil {
		return "", err
	}
	if resp.SecureURL == "" {
		return "", errors.New("upload response carried no secure_url")
	}
	return resp.SecureURL, nil
}

// Delete destroys the image behind url. Any outcome other than result "ok" is
// an error, including missing credentials.
func (h *CloudinaryHost) Delete(ctx context.Context, imageURL string) error {
	if h.cfg.CloudName == "" || h.cfg.APIKey == "" || h.cfg.APISecret == "" {
		return errCloudinaryNotConfigured
	}

	publicID := PublicID(imageURL)
	if publicID == "" {
		return fmt.Errorf("no public id in %q", imageURL)
	}

	timestamp := strconv.FormatInt(h.now().Unix(), 10)
	signature := utils.SignParams(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}, h.cfg.APISecret)

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("signature", signature)
	form.Set("api_key", h.cfg.APIKey)
	form.Set("timestamp", timestamp)

	var resp cloudinaryResponse
	if err := h.do(ctx, h.endpoint("destroy"), "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &resp); err != nil {
		return err
	}
	if resp.Result != "ok" {
		return fmt.Errorf("destroy returned result %q", resp.Result)
	}
	return nil
}

func (h *CloudinaryHost) do(ctx context.Context, endpoint, contentType string, body io.Reader, out *cloudinaryResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := h.client.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil && out.Error.Message != "" {
			return fmt.Errorf("image host returned %d: %s", resp.StatusCode, out.Error.Message)
		}
		return fmt.Errorf("image host returned %d", resp.StatusCode)
	}
	return nil
}

// PublicID derives the host object id from an image URL: the last path segment
// without query string and without everything from the first '.'.
//
//	https://res.cloudinary.com/demo/image/upload/v12345/sample.jpg -> sample
func PublicID(imageURL string) string {
	last := imageURL[strings.LastIndex(imageURL, "/")+1:]
	last, _, _ = strings.Cut(last, "?")
	id, _, _ := strings.Cut(last, ".")
	return id
}

// Package images talks to the hosted image CDNs. Catalog images live on
// Cloudinary or ImageKit; both support URL-driven resize/format
// transforms, with different URL conventions.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TransformOptions are the supported URL transform parameters. Zero
// values are omitted from the generated URL.
type TransformOptions struct {
	Width   int
	Height  int
	Quality int
	Format  string // e.g. "auto", "webp"
	Crop    string // e.g. "fill", "fit"
}

// TransformURL rewrites a CDN URL to request a transformed rendition.
// The provider is detected by URL substring; URLs from neither provider
// pass through unmodified, as do URLs with no options set.
func TransformURL(rawURL string, opts TransformOptions) string {
	if rawURL == "" {
		return rawURL
	}

	switch {
	case strings.Contains(rawURL, "cloudinary.com"):
		return cloudinaryTransform(rawURL, opts)
	case strings.Contains(rawURL, "ik.imagekit.io"):
		return imagekitTransform(rawURL, opts)
	default:
		return rawURL
	}
}

// cloudinaryTransform injects a transform segment after /upload/, e.g.
// .../upload/w_800,q_80,f_auto/...
func cloudinaryTransform(rawURL string, opts TransformOptions) string {
	parts := strings.SplitN(rawURL, "/upload/", 2)
	if len(parts) != 2 {
		return rawURL
	}

	segments := []string{}
	if opts.Width > 0 {
		segments = append(segments, "w_"+strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		segments = append(segments, "h_"+strconv.Itoa(opts.Height))
	}
	if opts.Quality > 0 {
		segments = append(segments, "q_"+strconv.Itoa(opts.Quality))
	}
	if opts.Format != "" {
		segments = append(segments, "f_"+opts.Format)
	}
	if opts.Crop != "" {
		segments = append(segments, "c_"+opts.Crop)
	}

	if len(segments) == 0 {
		return rawURL
	}

	return parts[0] + "/upload/" + strings.Join(segments, ",") + "/" + parts[1]
}

// imagekitTransform appends a tr= query parameter, e.g. ?tr=w-800,q-80
func imagekitTransform(rawURL string, opts TransformOptions) string {
	segments := []string{}
	if opts.Width > 0 {
		segments = append(segments, "w-"+strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		segments = append(segments, "h-"+strconv.Itoa(opts.Height))
	}
	if opts.Quality > 0 {
		segments = append(segments, "q-"+strconv.Itoa(opts.Quality))
	}
	if opts.Format != "" {
		segments = append(segments, "f-"+opts.Format)
	}
	if opts.Crop != "" {
		segments = append(segments, "c-"+opts.Crop)
	}

	if len(segments) == 0 {
		return rawURL
	}

	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}

	return rawURL + separator + "tr=" + strings.Join(segments, ",")
}

// Uploader posts images to the Cloudinary unsigned upload endpoint and
// returns the public URL
type Uploader struct {
	client       *http.Client
	baseURL      string
	cloudName    string
	uploadPreset string
}

// NewUploader creates an Uploader for the given Cloudinary account
func NewUploader(cloudName, uploadPreset string) *Uploader {
	return &Uploader{
		client:       &http.Client{Timeout: 30 * time.Second},
		baseURL:      "https://api.cloudinary.com",
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends one image and returns its public URL. Failures are
// terminal for the current interaction; nothing is retried here.
func (u *Uploader) Upload(ctx context.Context, filename string, file io.Reader, folder string) (string, error) {
	body := &strings.Builder{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	if err := writer.WriteField("upload_preset", u.uploadPreset); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if folder != "" {
		if err := writer.WriteField("folder", folder); err != nil {
			return "", fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", u.baseURL, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("upload rejected: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("upload response missing URL (status %d)", resp.StatusCode)
	}

	return result.SecureURL, nil
}

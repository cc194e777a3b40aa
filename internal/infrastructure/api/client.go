// Package api implements the HTTP adapter for the remote booking Auth/Job
// API. All real business logic (matching, authorization, invoicing,
// persistence) lives behind these endpoints; the gateway only passes form
// data through and renders the responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/ports"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// Client talks to the booking API over HTTP with JSON envelopes. It is
// stateless; the per-browser upstream session cookie is passed into every
// call.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

var _ ports.BookingAPI = (*Client)(nil)

// NewClient validates the base URL and returns a ready Client.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

type checkAuthResult struct {
	AccountType string `json:"account_type"`
}

func (c *Client) CheckAuth(ctx context.Context, upstreamCookie string) (domain.Role, error) {
	raw, _, err := c.call(ctx, http.MethodGet, "/check-auth/", upstreamCookie, nil)
	if err != nil {
		return domain.RoleUnknown, err
	}
	var res checkAuthResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.RoleUnknown, fmt.Errorf("check-auth result: %w", err)
	}
	return domain.ParseAccountType(res.AccountType), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.Role, string, error) {
	body := map[string]string{"email": email, "password": password}
	raw, resp, err := c.call(ctx, http.MethodPost, "/login/", "", body)
	if err != nil {
		return domain.RoleUnknown, "", err
	}
	var res checkAuthResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.RoleUnknown, "", fmt.Errorf("login result: %w", err)
	}

	// The upstream session credential arrives as Set-Cookie; flatten it into
	// a Cookie header value replayed on later calls for this browser.
	pairs := make([]string, 0, len(resp.Cookies()))
	for _, ck := range resp.Cookies() {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	return domain.ParseAccountType(res.AccountType), strings.Join(pairs, "; "), nil
}

// Logout tells the upstream to drop the session. Any 2xx counts as success;
// the caller clears the gateway session regardless.
func (c *Client) Logout(ctx context.Context, upstreamCookie string) error {
	_, _, err := c.call(ctx, http.MethodPost, "/logout/", upstreamCookie, nil)
	return err
}

func (c *Client) RegisterCustomer(ctx context.Context, in ports.RegisterCustomerInput) error {
	_, _, err := c.call(ctx, http.MethodPost, "/register-customer/", "", in)
	return err
}

func (c *Client) CreateAccount(ctx context.Context, upstreamCookie string, in ports.CreateAccountInput) error {
	_, _, err := c.call(ctx, http.MethodPost, "/register-admin/", upstreamCookie, in)
	return err
}

func (c *Client) PendingAccountRequests(ctx context.Context, upstreamCookie string) ([]domain.AccountRequest, error) {
	return listCall[domain.AccountRequest](ctx, c, http.MethodGet, "/needs-approval/", upstreamCookie, nil)
}

func (c *Client) ResolveAccountRequest(ctx context.Context, upstreamCookie, email string, accepted bool) error {
	body := map[string]any{"email": email, "accepted": accepted}
	_, _, err := c.call(ctx, http.MethodPost, "/approve/", upstreamCookie, body)
	return err
}

func (c *Client) FetchAppointments(ctx context.Context, upstreamCookie string, unassigned bool) ([]domain.Appointment, error) {
	return listCall[domain.Appointment](ctx, c, http.MethodPost, "/fetch-appointments/", upstreamCookie, map[string]bool{"unassigned": unassigned})
}

func (c *Client) OfferedAppointments(ctx context.Context, upstreamCookie string) ([]domain.Appointment, error) {
	return listCall[domain.Appointment](ctx, c, http.MethodPost, "/offered-appointments/", upstreamCookie, nil)
}

func (c *Client) AcceptedAppointments(ctx context.Context, upstreamCookie string) ([]domain.Appointment, error) {
	return listCall[domain.Appointment](ctx, c, http.MethodGet, "/accepted-appointments/", upstreamCookie, nil)
}

func (c *Client) RequestAppointment(ctx context.Context, upstreamCookie string, in ports.RequestAppointmentInput) error {
	_, _, err := c.call(ctx, http.MethodPost, "/appointment-request/", upstreamCookie, in)
	return err
}

func (c *Client) OfferAppointment(ctx context.Context, upstreamCookie string, appointmentID int, interpreterEmails []string) error {
	body := map[string]any{"appointmentID": appointmentID, "interpreters": interpreterEmails}
	_, _, err := c.call(ctx, http.MethodPost, "/offer-appointments/", upstreamCookie, body)
	return err
}

func (c *Client) RespondToAppointmentOffer(ctx context.Context, upstreamCookie string, appointmentID int, accepted bool) error {
	body := map[string]any{"appointmentID": appointmentID, "accepted": accepted}
	_, _, err := c.call(ctx, http.MethodPost, "/updated-appointments/", upstreamCookie, body)
	return err
}

func (c *Client) EditAppointment(ctx context.Context, upstreamCookie string, in ports.EditAppointmentInput) error {
	_, _, err := c.call(ctx, http.MethodPost, "/edit-appointments/", upstreamCookie, in)
	return err
}

func (c *Client) ToggleAppointmentInvoice(ctx context.Context, upstreamCookie string, appointmentID int) error {
	_, _, err := c.call(ctx, http.MethodPost, "/toggle-appointment-invoice/", upstreamCookie, map[string]int{"appID": appointmentID})
	return err
}

func (c *Client) FetchTranslations(ctx context.Context, upstreamCookie string, unassigned bool) ([]domain.Translation, error) {
	return listCall[domain.Translation](ctx, c, http.MethodPost, "/fetch-translations/", upstreamCookie, map[string]bool{"unassigned": unassigned})
}

func (c *Client) OfferedTranslations(ctx context.Context, upstreamCookie string) ([]domain.Translation, error) {
	return listCall[domain.Translation](ctx, c, http.MethodPost, "/offered-translations/", upstreamCookie, nil)
}

func (c *Client) AcceptedTranslations(ctx context.Context, upstreamCookie string) ([]domain.Translation, error) {
	return listCall[domain.Translation](ctx, c, http.MethodPost, "/fetch-accepted-translations/", upstreamCookie, nil)
}

func (c *Client) RequestTranslation(ctx context.Context, upstreamCookie string, in ports.RequestTranslationInput, document io.Reader, filename string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("document", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, document); err != nil {
		return fmt.Errorf("translation document: %w", err)
	}
	_ = mw.WriteField("language", in.Language)
	_ = mw.WriteField("word_count", fmt.Sprintf("%d", in.WordCount))
	_ = mw.WriteField("company", in.Company)
	if err := mw.Close(); err != nil {
		return err
	}

	_, _, err = c.callRaw(ctx, http.MethodPost, "/translation-request/", upstreamCookie, &buf, mw.FormDataContentType())
	return err
}

func (c *Client) OfferTranslation(ctx context.Context, upstreamCookie string, translationID int, interpreterEmails []string) error {
	body := map[string]any{"translationID": translationID, "interpreters": interpreterEmails}
	_, _, err := c.call(ctx, http.MethodPost, "/offer-translations/", upstreamCookie, body)
	return err
}

func (c *Client) RespondToTranslationOffer(ctx context.Context, upstreamCookie string, translationID int, accepted bool) error {
	body := map[string]any{"translationID": translationID, "accepted": accepted}
	_, _, err := c.call(ctx, http.MethodPost, "/update-translation/", upstreamCookie, body)
	return err
}

func (c *Client) SetTranslationWordCount(ctx context.Context, upstreamCookie string, translationID, actualWordCount int) error {
	body := map[string]int{"translationID": translationID, "actual_word_count": actualWordCount}
	_, _, err := c.call(ctx, http.MethodPost, "/set-translations-actual-word-count/", upstreamCookie, body)
	return err
}

func (c *Client) ToggleTranslationInvoice(ctx context.Context, upstreamCookie string, translationID int) error {
	_, _, err := c.call(ctx, http.MethodPost, "/toggle-translation-invoice/", upstreamCookie, map[string]int{"translationID": translationID})
	return err
}

func (c *Client) Languages(ctx context.Context, upstreamCookie string) ([]domain.Language, error) {
	return listCall[domain.Language](ctx, c, http.MethodGet, "/languages/", upstreamCookie, nil)
}

func (c *Client) Interpreters(ctx context.Context, upstreamCookie string) ([]domain.Interpreter, error) {
	return listCall[domain.Interpreter](ctx, c, http.MethodGet, "/all-interpreters/", upstreamCookie, nil)
}

func (c *Client) ProfileFields(ctx context.Context, upstreamCookie, user string) ([]domain.ProfileField, error) {
	return listCall[domain.ProfileField](ctx, c, http.MethodGet, "/auth/get_user_edit_fields?user="+url.QueryEscape(user), upstreamCookie, nil)
}

func (c *Client) EditProfile(ctx context.Context, upstreamCookie, user string, fields map[string]string) error {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	_, _, err := c.callRaw(ctx, http.MethodPost, "/auth/edit_profile?user="+url.QueryEscape(user), upstreamCookie,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	return err
}

// DownloadFile fetches a protected media blob. Unlike the JSON endpoints the
// body is opaque; 403 and 404 are the two distinguished failure cases.
func (c *Client) DownloadFile(ctx context.Context, upstreamCookie, filePath string) (*ports.FileDownload, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(filePath, "/"), "media/")
	req, err := c.newRequest(ctx, http.MethodGet, "/protected-media/"+trimmed+"/", upstreamCookie, nil, "")
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("protected media: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return &ports.FileDownload{
			Body:        resp.Body,
			ContentType: resp.Header.Get("Content-Type"),
			Filename:    path.Base(trimmed),
		}, nil
	case http.StatusForbidden:
		resp.Body.Close()
		return nil, domain.ErrForbidden
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, domain.ErrFileNotFound
	}
	resp.Body.Close()
	return nil, fmt.Errorf("protected media: unexpected status %d", resp.StatusCode)
}

// listCall handles the common list-endpoint shape: success result decodes to
// a slice of T. A confirmed-empty list decodes to an empty, non-nil slice so
// views can distinguish it from not-yet-loaded.
func listCall[T any](ctx context.Context, c *Client, method, p, cookie string, body any) ([]T, error) {
	raw, _, err := c.call(ctx, method, p, cookie, body)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%s result: %w", p, err)
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, method, p, cookie string, body any) (json.RawMessage, *http.Response, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.callRaw(ctx, method, p, cookie, reader, contentType)
}

func (c *Client) callRaw(ctx context.Context, method, p, cookie string, body io.Reader, contentType string) (json.RawMessage, *http.Response, error) {
	req, err := c.newRequest(ctx, method, p, cookie, body, contentType)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("transport").Inc()
		return nil, nil, fmt.Errorf("%s %s: %w", method, p, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("transport").Inc()
		return nil, nil, fmt.Errorf("%s %s: read body: %w", method, p, err)
	}

	raw, err := decodeEnvelope(payload)
	if err != nil {
		if apiErr, ok := err.(*domain.APIError); ok {
			// Business error: expected, recoverable, rendered inline.
			metrics.UpstreamErrorsTotal.WithLabelValues("business").Inc()
			return nil, resp, apiErr
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			metrics.UpstreamErrorsTotal.WithLabelValues("transport").Inc()
			return nil, resp, fmt.Errorf("%s %s: status %d", method, p, resp.StatusCode)
		}
		metrics.UpstreamErrorsTotal.WithLabelValues("transport").Inc()
		return nil, resp, fmt.Errorf("%s %s: %w", method, p, err)
	}
	return raw, resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, p, cookie string, body io.Reader, contentType string) (*http.Request, error) {
	ref, err := url.Parse(p)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return req, nil
}

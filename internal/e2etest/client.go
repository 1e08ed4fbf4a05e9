package e2etest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Client is a cookie-aware HTTP client for driving the server in tests.
type Client struct {
	client       *http.Client
	url          string
	secFetchSite string
}

// unsafeCookieJar strips the Secure attribute from stored cookies. The test
// server listens on plain HTTP, and the standard jar would otherwise withhold
// the session cookie.
type unsafeCookieJar struct {
	jar http.CookieJar
}

func newUnsafeCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &unsafeCookieJar{jar: jar}, nil
}

func (j *unsafeCookieJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	j.jar.SetCookies(u, cookies)
}

func (j *unsafeCookieJar) Cookies(u *neturl.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

// NewClient creates a test client against the given server URL.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		client:       &http.Client{Jar: jar}, //nolint:exhaustruct // defaults are fine.
		url:          url,
		secFetchSite: "",
	}, nil
}

// NewClientWithSecFetchSite creates a test client that sends the given
// Sec-Fetch-Site header on every request. Use "cross-site" to simulate a
// malicious cross-origin browser request.
func NewClientWithSecFetchSite(url, secFetchSite string) (*Client, error) {
	client, err := NewClient(url)
	if err != nil {
		return nil, err
	}
	client.secFetchSite = secFetchSite
	return client, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return fmt.Errorf("close response body: %w", err)
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return fmt.Errorf("close response body: %w", err)
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, fmt.Errorf("create request with context: %w", err)
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// Post sends a POST with an empty form body and returns the response.
func (c *Client) Post(ctx context.Context, urlPath string) (*http.Response, error) {
	req, err := c.newRequestWithContext(ctx, http.MethodPost, urlPath, strings.NewReader(""))
	if err != nil {
		return nil, fmt.Errorf("create request with context: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	var (
		err  error
		resp *http.Response
		doc  *goquery.Document
	)
	if resp, err = c.Get(ctx, urlPath); err != nil {
		return nil, fmt.Errorf("client get: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}
	return doc, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)
	if req, err = http.NewRequest(method, c.url+urlPath, body); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.secFetchSite != "" {
		req.Header.Set("Sec-Fetch-Site", c.secFetchSite)
	}
	return req.WithContext(ctx), nil
}

// SubmitForm submits a form in the doc identified with action formActionUrlPath and returns the response document.
// formFields is a map of label text to value. The function will find the input by label and set its value.
func (c *Client) SubmitForm(
	ctx context.Context,
	doc *goquery.Document,
	formActionURLPath string,
	formFields map[string]string,
) (*goquery.Document, error) {
	form, err := FindForm(doc, formActionURLPath)
	if err != nil {
		return nil, fmt.Errorf("find form: %w", err)
	}

	formData := neturl.Values{}

	// Carry over hidden inputs like record identifiers.
	form.Find("input[type='hidden']").Each(func(_ int, hidden *goquery.Selection) {
		name, hasName := hidden.Attr("name")
		if !hasName {
			return
		}
		value, _ := hidden.Attr("value")
		formData.Set(name, value)
	})

	// Find form inputs based on their labels.
	for labelText, value := range formFields {
		var input *goquery.Selection
		if input, err = FindInputForLabel(form, labelText); err != nil {
			if input, err = FindSelectForLabel(form, labelText); err != nil {
				return nil, fmt.Errorf("find input for label: %w", err)
			}
		}

		name, exists := input.Attr("name")
		if !exists {
			return nil, fmt.Errorf("input has no name attribute (label: %s, form_action: %s)",
				labelText, formActionURLPath)
		}

		formData.Set(name, value)
	}

	// Submit the form.
	data := strings.NewReader(formData.Encode())
	req, err := c.newRequestWithContext(ctx, http.MethodPost, formActionURLPath, data)
	if err != nil {
		return nil, fmt.Errorf("new request with context: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Parse the response.
	newDoc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}
	newDoc.Url = resp.Request.URL
	return newDoc, nil
}

package e2etest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Client drives the server the way a browser would: it keeps session
// cookies and tags state-changing requests with the fetch metadata headers
// the cross-origin protection expects.
type Client struct {
	client       *http.Client
	url          string
	secFetchSite string
}

// NewClient creates a browser-like HTTP client for the server at url.
func NewClient(url string) (*Client, error) {
	return NewClientWithSecFetchSite(url, "same-origin")
}

// NewClientWithSecFetchSite creates a client that sends the given
// Sec-Fetch-Site value on non-GET requests. Tests use "cross-site" to
// verify that the cross-origin protection rejects such requests.
func NewClientWithSecFetchSite(url, secFetchSite string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, fmt.Errorf("create unsafe cookie jar: %w", err)
	}
	return &Client{
		client:       &http.Client{Jar: jar},
		url:          url,
		secFetchSite: secFetchSite,
	}, nil
}

// unsafeCookieJar stores cookies per host and replays them on every
// request regardless of the Secure attribute. The session cookie is marked
// Secure in production but the test server only speaks plain HTTP.
type unsafeCookieJar struct {
	mu      sync.Mutex
	cookies map[string]map[string]*http.Cookie
}

func newUnsafeCookieJar() (*unsafeCookieJar, error) {
	return &unsafeCookieJar{cookies: map[string]map[string]*http.Cookie{}}, nil
}

func (jar *unsafeCookieJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	jar.mu.Lock()
	defer jar.mu.Unlock()
	host := u.Hostname()
	if jar.cookies[host] == nil {
		jar.cookies[host] = map[string]*http.Cookie{}
	}
	for _, cookie := range cookies {
		if cookie.MaxAge < 0 {
			delete(jar.cookies[host], cookie.Name)
			continue
		}
		jar.cookies[host][cookie.Name] = cookie
	}
}

func (jar *unsafeCookieJar) Cookies(u *neturl.URL) []*http.Cookie {
	jar.mu.Lock()
	defer jar.mu.Unlock()
	var out []*http.Cookie
	for _, cookie := range jar.cookies[u.Hostname()] {
		out = append(out, cookie)
	}
	return out
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
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
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
	doc.Url = resp.Request.URL
	return doc, nil
}

// Post sends a form-encoded POST and returns the response without
// requiring a form in a previously fetched document.
func (c *Client) Post(ctx context.Context, urlPath string, formData neturl.Values) (*http.Response, error) {
	req, err := c.newRequestWithContext(ctx, http.MethodPost, urlPath, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, fmt.Errorf("new request with context: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
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
	if method != http.MethodGet {
		req.Header.Set("Sec-Fetch-Site", c.secFetchSite)
	}
	return req.WithContext(ctx), nil
}

// SubmitForm submits a form in the doc identified with action formActionUrlPath and returns the response document.
// formFields is a map of label text to value. The function will find the input or select by label and set its value.
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

	// Find form controls based on their labels
	for labelText, value := range formFields {
		var control *goquery.Selection
		if control, err = FindInputForLabel(form, labelText); err != nil {
			if control, err = FindSelectForLabel(form, labelText); err != nil {
				return nil, fmt.Errorf("find control for label %s: %w", labelText, err)
			}
		}

		name, exists := control.Attr("name")
		if !exists {
			return nil, fmt.Errorf("control has no name attribute (label: %s, form_action: %s)",
				labelText, formActionURLPath)
		}

		formData.Add(name, value)
	}

	resp, err := c.Post(ctx, formActionURLPath, formData)
	if err != nil {
		return nil, fmt.Errorf("post form: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Parse the response
	newDoc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}
	newDoc.Url = resp.Request.URL
	return newDoc, nil
}

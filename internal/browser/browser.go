// Package browser imports the assistant service's session cookies from a
// local web browser, so the chat continues a conversation already started
// in the browser widget.
package browser

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/chrome"
	_ "github.com/browserutils/kooky/browser/chromium"
	_ "github.com/browserutils/kooky/browser/edge"
	_ "github.com/browserutils/kooky/browser/firefox"
	_ "github.com/browserutils/kooky/browser/opera"
	"golang.org/x/net/publicsuffix"
)

// SupportedBrowser represents a supported browser type
type SupportedBrowser string

const (
	BrowserAuto     SupportedBrowser = "auto"
	BrowserChrome   SupportedBrowser = "chrome"
	BrowserChromium SupportedBrowser = "chromium"
	BrowserFirefox  SupportedBrowser = "firefox"
	BrowserEdge     SupportedBrowser = "edge"
	BrowserOpera    SupportedBrowser = "opera"
)

// AllSupportedBrowsers returns a list of all supported browsers
func AllSupportedBrowsers() []SupportedBrowser {
	return []SupportedBrowser{
		BrowserChrome,
		BrowserChromium,
		BrowserFirefox,
		BrowserEdge,
		BrowserOpera,
	}
}

// String returns the string representation of the browser
func (b SupportedBrowser) String() string {
	return string(b)
}

// ParseBrowser parses a browser string into a SupportedBrowser
func ParseBrowser(s string) (SupportedBrowser, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return BrowserAuto, nil
	case "chrome", "google-chrome":
		return BrowserChrome, nil
	case "chromium":
		return BrowserChromium, nil
	case "firefox", "mozilla", "mozilla-firefox":
		return BrowserFirefox, nil
	case "edge", "microsoft-edge", "msedge":
		return BrowserEdge, nil
	case "opera":
		return BrowserOpera, nil
	default:
		return "", fmt.Errorf("unsupported browser: %s. Supported: chrome, chromium, firefox, edge, opera", s)
	}
}

// ExtractResult contains the result of cookie extraction
type ExtractResult struct {
	Cookies     []*fhttp.Cookie
	BrowserName string
	Domain      string
}

// CookieDomain returns the domain whose cookies belong to the service at
// baseURL: the registrable domain (eTLD+1) of its host, or the bare host for
// IP addresses and single-label hosts such as localhost.
func CookieDomain(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("base URL %q has no host", baseURL)
	}
	if net.ParseIP(host) != nil {
		return host, nil
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host, nil
	}
	return domain, nil
}

// ExtractSiteCookies reads the cookies a browser holds for the service at
// baseURL. With BrowserAuto every supported browser is tried in turn.
func ExtractSiteCookies(ctx context.Context, browser SupportedBrowser, baseURL string) (*ExtractResult, error) {
	domain, err := CookieDomain(baseURL)
	if err != nil {
		return nil, err
	}
	if browser == BrowserAuto {
		return extractFromAllBrowsers(ctx, domain)
	}
	return extractFromBrowser(ctx, browser, domain)
}

// extractFromAllBrowsers tries to extract cookies from all supported browsers
func extractFromAllBrowsers(ctx context.Context, domain string) (*ExtractResult, error) {
	browsers := []SupportedBrowser{
		BrowserChrome,
		BrowserFirefox,
		BrowserEdge,
		BrowserChromium,
		BrowserOpera,
	}

	var lastErr error
	for _, browser := range browsers {
		result, err := extractFromBrowser(ctx, browser, domain)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("could not find %s cookies in any browser: %w", domain, lastErr)
	}
	return nil, fmt.Errorf("could not find %s cookies in any supported browser", domain)
}

// extractFromBrowser tries every profile of one browser until one of them
// holds cookies for the domain
func extractFromBrowser(ctx context.Context, browser SupportedBrowser, domain string) (*ExtractResult, error) {
	stores := kooky.FindAllCookieStores(ctx)

	var matchingStores []kooky.CookieStore
	var browserName string

	for _, store := range stores {
		name := store.Browser()
		if matchesBrowser(name, browser) {
			matchingStores = append(matchingStores, store)
			if browserName == "" {
				browserName = name
			}
		} else {
			store.Close()
		}
	}

	if len(matchingStores) == 0 {
		return nil, fmt.Errorf("browser %s not found or no cookie store available", browser)
	}
	defer func() {
		for _, s := range matchingStores {
			s.Close()
		}
	}()

	var lastErr error
	for _, store := range matchingStores {
		result, err := extractCookiesFromStore(ctx, store, browserName, domain)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// matchesBrowser checks if a browser name matches the target browser
func matchesBrowser(browserName string, target SupportedBrowser) bool {
	browserName = strings.ToLower(browserName)

	switch target {
	case BrowserChrome:
		return strings.Contains(browserName, "chrome") && !strings.Contains(browserName, "chromium")
	case BrowserChromium:
		return strings.Contains(browserName, "chromium")
	case BrowserFirefox:
		return strings.Contains(browserName, "firefox")
	case BrowserEdge:
		return strings.Contains(browserName, "edge")
	case BrowserOpera:
		return strings.Contains(browserName, "opera")
	default:
		return false
	}
}

// extractCookiesFromStore collects the valid cookies of one profile
func extractCookiesFromStore(ctx context.Context, store kooky.CookieStore, browserName, domain string) (*ExtractResult, error) {
	cookies := store.TraverseCookies(
		kooky.Valid,
		kooky.DomainContains(domain),
	).OnlyCookies()

	var collected []*kooky.Cookie
	for cookie := range cookies {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		collected = append(collected, cookie)
	}

	displayName := browserName
	if profile := store.Profile(); profile != "" {
		displayName = fmt.Sprintf("%s (profile: %s)", browserName, profile)
	}

	converted := convertCookies(collected, domain)
	if len(converted) == 0 {
		return nil, fmt.Errorf("no cookies for %s found in %s. Open the support chat in that browser first", domain, displayName)
	}

	return &ExtractResult{
		Cookies:     converted,
		BrowserName: displayName,
		Domain:      domain,
	}, nil
}

// convertCookies turns browser cookies into transport cookies. Cookies whose
// domain merely contains the target as a substring (notexample.com for
// example.com) are dropped, and a name seen twice keeps the first value.
func convertCookies(cookies []*kooky.Cookie, domain string) []*fhttp.Cookie {
	seen := make(map[string]bool)
	var out []*fhttp.Cookie
	for _, c := range cookies {
		if c == nil || c.Name == "" || !domainMatches(c.Domain, domain) {
			continue
		}
		key := c.Name + "|" + c.Path
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, &fhttp.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	return out
}

func domainMatches(cookieDomain, domain string) bool {
	cookieDomain = strings.TrimPrefix(strings.ToLower(cookieDomain), ".")
	return cookieDomain == domain || strings.HasSuffix(cookieDomain, "."+domain)
}

// ListAvailableBrowsers returns a list of browsers that have cookie stores
func ListAvailableBrowsers(ctx context.Context) []string {
	stores := kooky.FindAllCookieStores(ctx)
	var browsers []string

	seen := make(map[string]bool)
	for _, store := range stores {
		name := store.Browser()
		if !seen[name] {
			browsers = append(browsers, name)
			seen[name] = true
		}
		store.Close()
	}

	return browsers
}

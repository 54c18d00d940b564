package network

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"golang.org/x/net/proxy"
)

const LogProxyNotConfigured = "Proxy not configured, using direct connection"

type ClientOptions struct {
	ProxyURL            string
	NoProxy             []string
	Timeout             time.Duration
	MaxIdleConns        int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	DisableKeepAlives   bool
}

// APIClientOptions suits model and image generation calls, which can take
// minutes. Per-request deadlines come from the caller's context.
func APIClientOptions(cfg config.HTTPConfig) ClientOptions {
	return ClientOptions{
		ProxyURL:            cfg.GetProxy(),
		NoProxy:             cfg.GetNoProxy(),
		Timeout:             3 * time.Minute,
		MaxIdleConns:        50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// LineClientOptions is used for the messaging and content APIs.
func LineClientOptions(cfg config.HTTPConfig) ClientOptions {
	opts := APIClientOptions(cfg)
	opts.Timeout = 30 * time.Second
	opts.MaxIdleConns = 20
	return opts
}

func NewClient(opts ClientOptions, log logger.Logger) (*http.Client, error) {
	transport := &http.Transport{
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          opts.MaxIdleConns,
		IdleConnTimeout:       opts.IdleConnTimeout,
		DisableKeepAlives:     opts.DisableKeepAlives,
		TLSHandshakeTimeout:   opts.TLSHandshakeTimeout,
		ExpectContinueTimeout: time.Second,
		DialContext:           newDialer().DialContext,
	}

	if opts.ProxyURL == "" {
		log.Info(LogProxyNotConfigured)
	} else if err := configureProxy(transport, opts.ProxyURL, opts.NoProxy, log); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}, nil
}

func configureProxy(transport *http.Transport, rawURL string, noProxy []string, log logger.Logger) error {
	proxyURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse proxy URL: %w", err)
	}

	switch proxyURL.Scheme {
	case "socks5", "socks5h":
		dial, err := socks5DialContext(proxyURL, noProxy)
		if err != nil {
			return err
		}
		transport.DialContext = dial
	case "http", "https":
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			if bypass(req.URL.Hostname(), noProxy) {
				return nil, nil
			}
			return proxyURL, nil
		}
	default:
		return fmt.Errorf("unsupported proxy scheme: %q", proxyURL.Scheme)
	}

	log.WithFields(logger.Fields{
		"proxy":    proxyURL.Redacted(),
		"no_proxy": noProxy,
	}).Info("Proxy configured")
	return nil
}

// bypass reports whether host matches a NO_PROXY entry. Entries are exact
// hosts, glob patterns ("*.internal") or domain suffixes (".internal").
func bypass(host string, noProxy []string) bool {
	host = strings.ToLower(host)
	for _, pattern := range noProxy {
		pattern = strings.ToLower(pattern)
		switch {
		case pattern == "*" || pattern == host:
			return true
		case strings.HasPrefix(pattern, "."):
			if strings.HasSuffix(host, pattern) || host == pattern[1:] {
				return true
			}
		case strings.Contains(pattern, "*"):
			if ok, _ := path.Match(pattern, host); ok {
				return true
			}
		}
	}
	return false
}

func newDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
}

func socks5DialContext(proxyURL *url.URL, noProxy []string) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	direct := newDialer()
	dialer, err := proxy.FromURL(proxyURL, direct)
	if err != nil {
		return nil, fmt.Errorf("create SOCKS5 dialer: %w", err)
	}
	contextDialer, hasContext := dialer.(proxy.ContextDialer)

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		if bypass(host, noProxy) {
			return direct.DialContext(ctx, network, addr)
		}
		if hasContext {
			return contextDialer.DialContext(ctx, network, addr)
		}
		return dialer.Dial(network, addr)
	}, nil
}

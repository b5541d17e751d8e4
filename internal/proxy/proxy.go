package proxy

import (
	"math/rand"
	"net/url"

	"github.com/williampepple1/selector-scraper/internal/config"
)

// Manager handles proxy configuration and rotation
type Manager struct {
	Config *config.ProxyConfig
}

// NewManager creates a new proxy manager
func NewManager(config *config.ProxyConfig) *Manager {
	return &Manager{
		Config: config,
	}
}

// Enabled reports whether requests should go through a proxy
func (m *Manager) Enabled() bool {
	return m.Config.Enabled && len(m.Config.List) > 0
}

// GetProxyURL returns a proxy URL from the configuration, or nil when proxies are disabled
func (m *Manager) GetProxyURL() (*url.URL, error) {
	if !m.Enabled() {
		return nil, nil
	}

	// Select a proxy
	proxyStr := m.Config.List[0]
	if m.Config.Rotate && len(m.Config.List) > 1 {
		proxyStr = m.Config.List[rand.Intn(len(m.Config.List))]
	}

	// Parse the proxy URL
	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, err
	}

	// Add authentication if provided
	if m.Config.Auth.Username != "" && m.Config.Auth.Password != "" {
		proxyURL.User = url.UserPassword(m.Config.Auth.Username, m.Config.Auth.Password)
	}

	return proxyURL, nil
}

// ServerAddress returns a proxy in the scheme://host:port form Chrome accepts.
// Chrome cannot take credentials on the command line, so they are dropped.
func (m *Manager) ServerAddress() (string, error) {
	proxyURL, err := m.GetProxyURL()
	if err != nil || proxyURL == nil {
		return "", err
	}
	server := url.URL{Scheme: proxyURL.Scheme, Host: proxyURL.Host}
	return server.String(), nil
}

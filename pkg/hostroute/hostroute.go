// Package hostroute maps an inbound hostname onto either the platform
// application or a tenant's public site.
package hostroute

import (
	"net"
	"strings"
)

// Options configures a Resolver. Domain is the shared suffix tenant
// subdomains hang off ("techforgyms.shop").
type Options struct {
	PlatformHosts    []string
	Domain           string
	SitesPrefix      string
	ExcludedPrefixes []string
}

// Result describes what to do with one request.
type Result struct {
	// Rewrite is false for platform requests and excluded paths.
	Rewrite bool
	// TenantKey is the subdomain label or the full custom domain.
	TenantKey string
	// Path is the path to serve; equal to the input when Rewrite is false.
	Path string
	// CustomDomain is set when the tenant key is a full hostname.
	CustomDomain bool
}

// Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	hosts    map[string]struct{}
	suffix   string
	prefix   string
	excluded []string
}

// New builds a Resolver; SitesPrefix defaults to "/sites".
func New(opts Options) *Resolver {
	r := &Resolver{
		hosts:  make(map[string]struct{}, len(opts.PlatformHosts)),
		prefix: strings.TrimRight(opts.SitesPrefix, "/"),
	}
	for _, h := range opts.PlatformHosts {
		if h = normalizeHost(h); h != "" {
			r.hosts[h] = struct{}{}
		}
	}
	if d := normalizeHost(opts.Domain); d != "" {
		r.suffix = "." + d
	}
	if r.prefix == "" {
		r.prefix = "/sites"
	}
	r.excluded = append(r.excluded, opts.ExcludedPrefixes...)
	return r
}

// Resolve classifies host and computes the path to serve.
func (r *Resolver) Resolve(host, path string) Result {
	if path == "" {
		path = "/"
	}
	pass := Result{Path: path}

	h := normalizeHost(host)
	if h == "" {
		return pass
	}
	if _, ok := r.hosts[h]; ok {
		return pass
	}
	// Probes and scrapes address the pod directly; an IP is never a tenant.
	if net.ParseIP(h) != nil {
		return pass
	}
	if r.isExcluded(path) {
		return pass
	}

	key, custom := h, true
	if r.suffix != "" && strings.HasSuffix(h, r.suffix) {
		key, custom = strings.TrimSuffix(h, r.suffix), false
	}
	if key == "" {
		return pass
	}

	return Result{
		Rewrite:      true,
		TenantKey:    key,
		Path:         r.prefix + "/" + key + path,
		CustomDomain: custom,
	}
}

// IsPlatformHost reports whether host serves the main application.
func (r *Resolver) IsPlatformHost(host string) bool {
	_, ok := r.hosts[normalizeHost(host)]
	return ok
}

func (r *Resolver) isExcluded(path string) bool {
	for _, p := range r.excluded {
		if path == p || strings.HasPrefix(path, strings.TrimRight(p, "/")+"/") {
			return true
		}
	}
	return false
}

// normalizeHost lower-cases and strips the port and a trailing root dot.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	return strings.TrimSuffix(host, ".")
}

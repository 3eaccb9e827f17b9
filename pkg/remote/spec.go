package remote

import (
	"net/url"
	"strconv"
	"strings"
)

const registrationBase = "https://lichess.org/analysis/external"

// Spec describes a running server the way lichess needs to register it. It is
// built once by MakeServer and never changes afterwards.
type Spec struct {
	url               string
	secret            string
	name              string
	maxThreads        int
	maxHash           int
	variants          []string
	officialStockfish bool
}

func newSpec(addr string, opts Options) *Spec {
	return &Spec{
		url:               "ws://" + addr + "/socket",
		secret:            opts.Secret,
		name:              opts.Name,
		maxThreads:        opts.MaxThreads,
		maxHash:           opts.MaxHash,
		variants:          append([]string(nil), opts.Variants...),
		officialStockfish: opts.OfficialStockfish,
	}
}

// RegistrationURL returns the link that registers this engine with lichess.
func (s *Spec) RegistrationURL() string {
	v := url.Values{}
	v.Set("url", s.url)
	v.Set("secret", s.secret)
	v.Set("name", s.name)
	v.Set("maxThreads", strconv.Itoa(s.maxThreads))
	v.Set("maxHash", strconv.Itoa(s.maxHash))
	if len(s.variants) > 0 {
		v.Set("variants", strings.Join(s.variants, ","))
	}
	if s.officialStockfish {
		v.Set("officialStockfish", "true")
	}
	return registrationBase + "?" + v.Encode()
}

// SocketURL is the websocket address advertised to lichess.
func (s *Spec) SocketURL() string {
	return s.url
}

func (s *Spec) Name() string {
	return s.name
}

func (s *Spec) Secret() string {
	return s.secret
}

// Package handles generates placeholder emails for federated accounts whose
// provider did not share one.
//
// A handle is prefix + a number in [0, MaxSuffix) + "@" + domain. The range is
// bounded and the store is never consulted, so two calls can return the same
// handle; the store's unique email constraint is what rejects a collision.
package handles

import (
	"math/rand/v2"
	"strconv"

	"github.com/dmitrijs2005/gophid/internal/common"
)

// MaxSuffix is the exclusive upper bound of the numeric part.
const MaxSuffix = 10000

// Generator produces handles. The zero value is not usable; use New or
// NewWithSource.
type Generator struct {
	intN   func(n int) int
	domain string
}

// New returns a Generator backed by the global math/rand/v2 source.
func New() *Generator {
	return &Generator{intN: rand.IntN, domain: common.PlaceholderEmailDomain}
}

// NewWithSource returns a Generator drawing numbers from src. Tests use it to
// make output deterministic. The result is not safe for concurrent use.
func NewWithSource(src rand.Source) *Generator {
	r := rand.New(src)
	return &Generator{intN: r.IntN, domain: common.PlaceholderEmailDomain}
}

// Generate returns prefix followed by a random number below MaxSuffix and the
// placeholder domain, e.g. "user1234@example.com".
func (g *Generator) Generate(prefix string) string {
	return prefix + strconv.Itoa(g.intN(MaxSuffix)) + "@" + g.domain
}

var defaultGenerator = New()

// Generate uses the package default generator.
func Generate(prefix string) string {
	return defaultGenerator.Generate(prefix)
}

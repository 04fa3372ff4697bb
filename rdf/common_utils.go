package rdf

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// blankNodeGenerator hands out process-unique blank node ids.
// Ids share a random per-generator prefix so that they do not collide with
// ids read from documents that use the common "b1", "b2" style.
type blankNodeGenerator struct {
	prefix  string
	counter atomic.Uint64
}

var defaultBlankNodes = newBlankNodeGenerator()

// newBlankNodeGenerator creates a new blank node generator.
func newBlankNodeGenerator() *blankNodeGenerator {
	prefix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return &blankNodeGenerator{prefix: "r" + prefix}
}

// next generates the next blank node id.
func (g *blankNodeGenerator) next() string {
	return generateBlankNodeID(g.prefix, g.counter.Add(1))
}

// generateBlankNodeID formats an id as prefix + "b" + counter.
func generateBlankNodeID(prefix string, counter uint64) string {
	return prefix + "b" + strconv.FormatUint(counter, 10)
}

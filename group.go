package fontatlas

import (
	"unicode/utf8"

	"github.com/gogpu/fontatlas/text"
)

// group is a baked range of CharsPerGroup consecutive codepoints occupying
// one horizontal band of the atlas. It never changes after creation.
type group struct {
	chars  []text.PackedChar
	yBegin int // first atlas row of the band
	height int
}

// lookupGroup returns the group at index, materializing it on first use.
// It returns nil if the group cannot be materialized.
func (f *Font) lookupGroup(index int) *group {
	if g, ok := f.groups[index]; ok {
		return g
	}
	if !f.ensureGroup(index) {
		return nil
	}
	return f.groups[index]
}

// ensureGroup materializes group index unless it already exists. It reports
// whether the group is available afterwards. Groups that failed once are
// not retried until the next Init.
func (f *Font) ensureGroup(index int) bool {
	if !f.Initialized() || index < 0 || index >= f.cfg.atlas.NumGroups() {
		return false
	}
	if _, ok := f.groups[index]; ok {
		f.logger().Debug("fontatlas: group already initialised", "group", index)
		return true
	}
	if _, ok := f.failed[index]; ok {
		return false
	}

	g, err := f.grow(index)
	if err != nil {
		f.failed[index] = struct{}{}
		f.logger().Warn("fontatlas: group not materialized",
			"group", index,
			"first", index*f.cfg.atlas.CharsPerGroup,
			"err", err)
		return false
	}

	f.groups[index] = g
	f.logger().Debug("fontatlas: group materialized",
		"group", index,
		"yBegin", g.yBegin,
		"height", g.height,
		"atlasHeight", f.atlasHeight)
	return true
}

// Prewarm materializes every group used by s and returns the number of
// groups it created. Decoding stops at the first malformed UTF-8 sequence.
func (f *Font) Prewarm(s string) int {
	if !f.Initialized() {
		return 0
	}
	created := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size <= 1 {
			break
		}
		s = s[size:]
		if r > f.cfg.atlas.MaxCodepoint {
			continue
		}
		index, _ := f.cfg.atlas.group(r)
		if _, ok := f.groups[index]; ok {
			continue
		}
		if f.ensureGroup(index) {
			created++
		}
	}
	return created
}

// PrewarmRange materializes the groups covering codepoints first through
// last and returns the number of groups it created.
func (f *Font) PrewarmRange(first, last rune) int {
	if !f.Initialized() || last < first || last < 0 {
		return 0
	}
	first = max(first, 0)
	last = min(last, f.cfg.atlas.MaxCodepoint)

	lo, _ := f.cfg.atlas.group(first)
	hi, _ := f.cfg.atlas.group(last)
	created := 0
	for index := lo; index <= hi; index++ {
		if _, ok := f.groups[index]; ok {
			continue
		}
		if f.ensureGroup(index) {
			created++
		}
	}
	return created
}

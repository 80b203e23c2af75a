package xlrw

import (
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CloneStyles clones cell styles from a source workbook into a target
// workbook. Each source style is registered in the target at most once.
type CloneStyles struct {
	source    *excelize.File
	path      string
	ownSource bool
	target    *excelize.File
	cache     map[int]int    // source style index → target style ID
	overlays  map[string]int // base ID + overlay → target style ID
}

// NewCloneStyles creates a registry cloning from source into target. A nil
// source makes Clone a no-op.
func NewCloneStyles(source, target *excelize.File) *CloneStyles {
	return &CloneStyles{
		source:   source,
		target:   target,
		cache:    make(map[int]int),
		overlays: make(map[string]int),
	}
}

// CloneStylesFromFile creates a registry whose source is the workbook at
// path. The file is opened on the first Clone and closed by Close.
func CloneStylesFromFile(path string, target *excelize.File) *CloneStyles {
	cs := NewCloneStyles(nil, target)
	cs.path = path
	return cs
}

// Clone returns the target style ID for a source style index. Without a
// style source it returns NoStyle and no error.
func (cs *CloneStyles) Clone(index int) (int, error) {
	if index == NoStyle {
		return NoStyle, nil
	}
	if id, ok := cs.cache[index]; ok {
		return id, nil
	}
	source, err := cs.sourceFile()
	if err != nil {
		return NoStyle, err
	}
	if source == nil {
		return NoStyle, nil
	}
	if source == cs.target {
		cs.cache[index] = index
		return index, nil
	}
	style, err := source.GetStyle(index)
	if err != nil {
		return NoStyle, fmt.Errorf("read source style %d: %w", index, err)
	}
	id, err := cs.target.NewStyle(style)
	if err != nil {
		return NoStyle, fmt.Errorf("clone style %d: %w", index, err)
	}
	cs.cache[index] = id
	return id, nil
}

// Overlay returns a target style equal to base with the attributes set in
// overlay laid on top. Results are cached per (base, overlay).
func (cs *CloneStyles) Overlay(base int, overlay *excelize.Style) (int, error) {
	if overlay == nil {
		return base, nil
	}
	raw, err := json.Marshal(overlay)
	if err != nil {
		return base, err
	}
	key := fmt.Sprintf("%d|%s", base, raw)
	if id, ok := cs.overlays[key]; ok {
		return id, nil
	}
	style := &excelize.Style{}
	if base > 0 {
		if style, err = cs.target.GetStyle(base); err != nil {
			return base, fmt.Errorf("read style %d: %w", base, err)
		}
	}
	mergeStyle(style, overlay)
	id, err := cs.target.NewStyle(style)
	if err != nil {
		return base, fmt.Errorf("overlay style %d: %w", base, err)
	}
	cs.overlays[key] = id
	return id, nil
}

// Len returns the number of distinct source styles cloned so far.
func (cs *CloneStyles) Len() int {
	return len(cs.cache)
}

// Close releases a style source opened from a file.
func (cs *CloneStyles) Close() error {
	if !cs.ownSource || cs.source == nil {
		return nil
	}
	err := cs.source.Close()
	cs.source, cs.ownSource = nil, false
	return err
}

func (cs *CloneStyles) sourceFile() (*excelize.File, error) {
	if cs.source != nil || cs.path == "" {
		return cs.source, nil
	}
	f, err := excelize.OpenFile(cs.path)
	if err != nil {
		return nil, fmt.Errorf("open style library %q: %w", cs.path, err)
	}
	cs.source, cs.ownSource = f, true
	return f, nil
}

// mergeStyle copies the attributes set in src onto dst.
func mergeStyle(dst, src *excelize.Style) {
	if len(src.Border) > 0 {
		dst.Border = src.Border
	}
	if src.Fill.Type != "" {
		dst.Fill = src.Fill
	}
	if src.Font != nil {
		if dst.Font == nil {
			dst.Font = &excelize.Font{}
		}
		mergeFont(dst.Font, src.Font)
	}
	if src.Alignment != nil {
		if dst.Alignment == nil {
			dst.Alignment = &excelize.Alignment{}
		}
		mergeAlignment(dst.Alignment, src.Alignment)
	}
	if src.Protection != nil {
		dst.Protection = src.Protection
	}
	if src.NumFmt != 0 {
		dst.NumFmt = src.NumFmt
		dst.CustomNumFmt = nil
	}
	if src.CustomNumFmt != nil {
		dst.CustomNumFmt = src.CustomNumFmt
	}
	if src.DecimalPlaces != nil {
		dst.DecimalPlaces = src.DecimalPlaces
	}
	if src.NegRed {
		dst.NegRed = true
	}
}

func mergeFont(dst, src *excelize.Font) {
	dst.Bold = dst.Bold || src.Bold
	dst.Italic = dst.Italic || src.Italic
	dst.Strike = dst.Strike || src.Strike
	if src.Underline != "" {
		dst.Underline = src.Underline
	}
	if src.Family != "" {
		dst.Family = src.Family
	}
	if src.Size != 0 {
		dst.Size = src.Size
	}
	if src.Color != "" {
		dst.Color = src.Color
	}
	if src.VertAlign != "" {
		dst.VertAlign = src.VertAlign
	}
}

func mergeAlignment(dst, src *excelize.Alignment) {
	if src.Horizontal != "" {
		dst.Horizontal = src.Horizontal
	}
	if src.Vertical != "" {
		dst.Vertical = src.Vertical
	}
	if src.Indent != 0 {
		dst.Indent = src.Indent
	}
	if src.TextRotation != 0 {
		dst.TextRotation = src.TextRotation
	}
	dst.WrapText = dst.WrapText || src.WrapText
	dst.ShrinkToFit = dst.ShrinkToFit || src.ShrinkToFit
}

package ui

import (
	"strconv"

	"github.com/five82/stickerpicker/internal/packs"
	"github.com/five82/stickerpicker/internal/thumbs"
)

// stickerCell is the on-screen slot for one sticker. It is the placeholder
// the thumbnail tracker attaches sources to.
type stickerCell struct {
	sticker packs.Sticker
	bounds  thumbs.Rect
	laidOut bool
	row     int
	source  string
}

func (c *stickerCell) MediaRef() string { return c.sticker.MediaRef() }
func (c *stickerCell) SetSource(url string) { c.source = url }
func (c *stickerCell) ClearSource() { c.source = "" }
func (c *stickerCell) Bounds() (thumbs.Rect, bool) { return c.bounds, c.laidOut }

// gridRow is either a pack title (cells empty) or a row of sticker cells.
type gridRow struct {
	title  string
	cells  []*stickerCell
	line   int
	height int
}

// grid is the laid-out catalog: rows stacked from line zero, cells in
// reading order.
type grid struct {
	columns int
	rows    []gridRow
	cells   []*stickerCell
	lines   int
}

// buildGrid lays out list for a terminal width. Cells are reused from cache
// by pack and sticker id so tracker registrations survive re-layout; cells
// that are not part of the new layout are marked as not laid out. The cells
// returned in fresh were created by this call.
func buildGrid(list []packs.Pack, width int, cache map[string]*stickerCell) (g grid, fresh []*stickerCell) {
	for _, c := range cache {
		c.laidOut = false
	}

	g.columns = max(1, width/cellWidth)
	used := make(map[string]int)
	line := 0
	for _, p := range list {
		g.rows = append(g.rows, gridRow{title: packTitle(p), line: line, height: 1})
		line++

		for start := 0; start < len(p.Stickers); start += g.columns {
			end := min(start+g.columns, len(p.Stickers))
			row := gridRow{line: line, height: cellHeight}
			for col, s := range p.Stickers[start:end] {
				key := cellKey(p.ID, s.ID, used)
				c, ok := cache[key]
				if !ok {
					c = &stickerCell{}
					cache[key] = c
					fresh = append(fresh, c)
				}
				c.sticker = s
				c.row = len(g.rows)
				c.laidOut = true
				c.bounds = thumbs.Rect{
					X: col * cellWidth * unitsPerColumn,
					Y: line * unitsPerLine,
					W: cellUnits,
					H: cellUnits,
				}
				row.cells = append(row.cells, c)
				g.cells = append(g.cells, c)
			}
			g.rows = append(g.rows, row)
			line += cellHeight
		}
	}
	g.lines = line
	return g, fresh
}

// cellKey identifies a sticker within a pack; repeated ids get a suffix.
func cellKey(packID, stickerID string, used map[string]int) string {
	key := packID + "/" + stickerID
	n := used[key]
	used[key] = n + 1
	if n > 0 {
		key += "#" + strconv.Itoa(n)
	}
	return key
}

func packTitle(p packs.Pack) string {
	if p.Title != "" {
		return p.Title
	}
	return p.ID
}

// cellAt returns the cell drawn at a content line and column, or nil.
func (g grid) cellAt(line, col int) *stickerCell {
	if col < 0 || line < 0 {
		return nil
	}
	for _, row := range g.rows {
		if line < row.line || line >= row.line+row.height {
			continue
		}
		idx := col / cellWidth
		if idx >= len(row.cells) {
			return nil
		}
		return row.cells[idx]
	}
	return nil
}

// indexOf returns the position of c in reading order, or -1.
func (g grid) indexOf(c *stickerCell) int {
	for i, cell := range g.cells {
		if cell == c {
			return i
		}
	}
	return -1
}

// viewRect converts a scroll offset and content size to layout units.
func viewRect(offset, width, height int) thumbs.Rect {
	return thumbs.Rect{
		X: 0,
		Y: offset * unitsPerLine,
		W: width * unitsPerColumn,
		H: height * unitsPerLine,
	}
}

// Package ui renders the sticker catalog as a Bubble Tea terminal app.
//
// # Layout
//
// The screen is a status header, a command bar, the sticker grid, and a
// footer. The grid shows each pack as a title line followed by rows of
// fixed-size sticker cells; the number of columns follows the terminal
// width.
//
// # Thumbnails
//
// Every sticker cell is a thumbs.Placeholder. Cells are laid out in layout
// units (one cell is one thumbnail square) and the scroll position is
// pushed to a thumbs.Viewport on every move, so only cells near the visible
// rows hold a thumbnail URL. Cells hidden by the search filter leave the
// layout and release theirs too. The header shows loaded/visible counts.
//
// # Data Flow
//
// The model never polls the catalog. It reads a snapshot from state.Store
// together with the store's change channel and waits on that channel until
// the catalog reaches a terminal phase.
//
// Enter, space, or a mouse click sends the selected sticker through the
// Sender (the widget bridge) without blocking the update loop.
//
// # Keys
//
//   - arrows or h/j/k/l: move the selection
//   - enter: send sticker
//   - /: fuzzy search sticker names, esc clears
//   - L: log overlay, T: cycle theme, ?: help, q: quit
package ui

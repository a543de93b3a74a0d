package packs

import (
	"encoding/json"
	"strings"
)

// Index mirrors packs/index.json.
type Index struct {
	HomeserverURL string   `json:"homeserver_url,omitempty"`
	Packs         []string `json:"packs"`
}

// Pack is a titled, ordered collection of stickers.
type Pack struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Stickers []Sticker `json:"stickers"`
}

// Sticker is one selectable image. Content keeps the original DTO so it can
// be forwarded to the host verbatim.
type Sticker struct {
	ID      string
	Body    string
	URL     string // mxc:// content URI
	Content json.RawMessage
}

// telegramStickerKey holds the per-sticker metadata written by the pack importer.
const telegramStickerKey = "net.maunium.telegram.sticker"

type stickerDTO struct {
	URL      string `json:"url"`
	Body     string `json:"body"`
	ID       string `json:"id"`
	Telegram struct {
		ID string `json:"id"`
	} `json:"net.maunium.telegram.sticker"`
}

// UnmarshalJSON decodes the known fields and keeps the raw payload.
func (s *Sticker) UnmarshalJSON(data []byte) error {
	var dto stickerDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	s.URL = dto.URL
	s.Body = dto.Body
	s.ID = firstNonEmpty(dto.Telegram.ID, dto.ID, dto.URL)
	s.Content = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original DTO when present.
func (s Sticker) MarshalJSON() ([]byte, error) {
	if len(s.Content) > 0 {
		return s.Content, nil
	}
	dto := map[string]any{"url": s.URL, "body": s.Body}
	if s.ID != "" {
		dto[telegramStickerKey] = map[string]string{"id": s.ID}
	}
	return json.Marshal(dto)
}

// MediaRef returns the content URI the thumbnail is derived from.
func (s Sticker) MediaRef() string {
	return s.URL
}

// StickerCount returns the total number of stickers across packs.
func StickerCount(list []Pack) int {
	total := 0
	for _, p := range list {
		total += len(p.Stickers)
	}
	return total
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

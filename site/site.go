// CLAUDE:SUMMARY Parses Elementor export kits (zip or directory) into a Site.
package site

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/hazyhaar/pagebridge/tree"
)

// settingsFiles, contentFiles: candidate names tried in order, first hit
// wins. Export plugins disagree on naming.
var (
	settingsFiles = []string{"site-settings.json", "settings.json", "global-settings.json"}
	contentFiles  = []string{"content.json", "pages.json", "manifest.json"}
)

// Parser reads a full site export. A page that fails to parse is logged
// and skipped; one broken page never fails the batch.
type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseZip reads an export kit zip in place, without extracting to disk.
func (p *Parser) ParseZip(zipPath string) (*Site, error) {
	if !strings.EqualFold(path.Ext(zipPath), ".zip") {
		return nil, fmt.Errorf("site: expected .zip file, got %q", path.Ext(zipPath))
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("site: open zip: %w", err)
	}
	defer r.Close()
	return p.parseFS(&r.Reader)
}

// ParseDir reads an already extracted export directory.
func (p *Parser) ParseDir(dir string) (*Site, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site: not a directory: %s", dir)
	}
	return p.parseFS(os.DirFS(dir))
}

func (p *Parser) parseFS(fsys fs.FS) (*Site, error) {
	s := &Site{Menus: make(map[string][]any)}
	s.Settings = p.parseSettings(fsys)
	s.Pages = p.parsePages(fsys)
	s.Templates = p.parseTemplates(fsys)
	p.parseMenus(fsys, s)
	s.Assets = collectAssets(fsys)
	if len(s.Pages) == 0 && len(s.Templates) == 0 {
		return nil, fmt.Errorf("site: no pages or templates found in export")
	}
	return s, nil
}

func (p *Parser) parseSettings(fsys fs.FS) Settings {
	var out Settings
	for _, name := range settingsFiles {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			continue
		}
		var data map[string]json.RawMessage
		if err := json.Unmarshal(raw, &data); err != nil {
			p.logger.Warn("site: bad settings file", "file", name, "error", err)
			return out
		}
		out.Name = stringField(data, "blogname", "site_name")
		out.Description = stringField(data, "blogdescription", "site_description")
		out.CustomCSS = stringField(data, "custom_css")
		out.Colors = parseColors(rawField(data, "system_colors", "colors"))
		out.Fonts = parseFonts(rawField(data, "system_typography", "typography"))
		out.ContainerWidth = 1140
		if cw, ok := data["container_width"]; ok {
			var size struct {
				Size int `json:"size"`
			}
			if json.Unmarshal(cw, &size) == nil && size.Size > 0 {
				out.ContainerWidth = size.Size
			}
		}
		return out
	}
	out.ContainerWidth = 1140
	return out
}

func (p *Parser) parsePages(fsys fs.FS) []*Page {
	pages := make([]*Page, 0)
	for _, name := range contentFiles {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			continue
		}
		for _, item := range pageItems(raw) {
			pg, err := p.parsePageItem(item)
			if err != nil {
				p.logger.Warn("site: skipping page", "file", name, "error", err)
				continue
			}
			if pg != nil {
				pages = append(pages, pg)
			}
		}
		break
	}

	// Exports may also carry one file per page under content/.
	entries, err := fs.Glob(fsys, "content/*.json")
	if err == nil {
		sort.Strings(entries)
		for _, name := range entries {
			raw, err := fs.ReadFile(fsys, name)
			if err != nil {
				continue
			}
			var item map[string]json.RawMessage
			if err := json.Unmarshal(raw, &item); err != nil {
				p.logger.Warn("site: skipping page", "file", name, "error", err)
				continue
			}
			pg, err := p.parsePageItem(item)
			if err != nil {
				p.logger.Warn("site: skipping page", "file", name, "error", err)
				continue
			}
			if pg != nil {
				pages = append(pages, pg)
			}
		}
	}
	return pages
}

// pageItems pulls the page list out of a content file, which is either a
// bare array or an object keyed content/pages/posts.
func pageItems(raw []byte) []map[string]json.RawMessage {
	var list []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil
	}
	for _, key := range []string{"content", "pages", "posts"} {
		if inner, ok := wrapped[key]; ok {
			if err := json.Unmarshal(inner, &list); err == nil {
				return list
			}
		}
	}
	return nil
}

func (p *Parser) parsePageItem(item map[string]json.RawMessage) (*Page, error) {
	doc, err := itemDocument(item)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	pg := &Page{
		ID:       intField(item, "id", "ID"),
		Title:    stringField(item, "title", "post_title"),
		Slug:     stringField(item, "slug", "post_name"),
		PostType: stringField(item, "post_type", "type"),
		Status:   stringField(item, "status", "post_status"),
		Document: doc,
	}
	if pg.Title == "" {
		pg.Title = "Untitled"
	}
	if pg.Slug == "" {
		pg.Slug = fmt.Sprintf("page-%d", pg.ID)
	}
	if pg.PostType == "" {
		pg.PostType = "page"
	}
	if pg.Status == "" {
		pg.Status = "publish"
	}
	if meta, ok := item["meta"]; ok {
		_ = json.Unmarshal(meta, &pg.Meta)
	}
	if pg.Document.Title == "" {
		pg.Document.Title = pg.Title
	}
	return pg, nil
}

func (p *Parser) parseTemplates(fsys fs.FS) []*Template {
	templates := make([]*Template, 0)

	entries, err := fs.Glob(fsys, "templates/*.json")
	if err == nil {
		sort.Strings(entries)
		for _, name := range entries {
			raw, err := fs.ReadFile(fsys, name)
			if err != nil {
				continue
			}
			var item map[string]json.RawMessage
			if err := json.Unmarshal(raw, &item); err != nil {
				p.logger.Warn("site: skipping template", "file", name, "error", err)
				continue
			}
			stem := strings.TrimSuffix(path.Base(name), ".json")
			tpl, err := p.parseTemplateItem(item, stem)
			if err != nil {
				p.logger.Warn("site: skipping template", "file", name, "error", err)
				continue
			}
			if tpl != nil {
				templates = append(templates, tpl)
			}
		}
	}

	if raw, err := fs.ReadFile(fsys, "theme-builder.json"); err == nil {
		var list []map[string]json.RawMessage
		if json.Unmarshal(raw, &list) != nil {
			var wrapped struct {
				Templates []map[string]json.RawMessage `json:"templates"`
			}
			if json.Unmarshal(raw, &wrapped) == nil {
				list = wrapped.Templates
			}
		}
		for _, item := range list {
			tpl, err := p.parseTemplateItem(item, "")
			if err != nil {
				p.logger.Warn("site: skipping template", "file", "theme-builder.json", "error", err)
				continue
			}
			if tpl != nil {
				templates = append(templates, tpl)
			}
		}
	}
	return templates
}

func (p *Parser) parseTemplateItem(item map[string]json.RawMessage, defaultType string) (*Template, error) {
	doc, err := itemDocument(item)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	tpl := &Template{
		ID:       stringField(item, "id", "_id"),
		Type:     stringField(item, "type", "template_type"),
		Title:    stringField(item, "title", "post_title"),
		Document: doc,
	}
	if tpl.ID == "" {
		if n := intField(item, "id", "_id"); n != 0 {
			tpl.ID = fmt.Sprintf("%d", n)
		}
	}
	if tpl.Type == "" {
		tpl.Type = defaultType
	}
	if tpl.Title == "" {
		tpl.Title = tpl.Type + " template"
	}
	if cond, ok := item["conditions"]; ok {
		_ = json.Unmarshal(cond, &tpl.Conditions)
	}
	return tpl, nil
}

// itemDocument finds the Elementor tree inside a page or template item.
// _elementor_data is often a JSON string, double-encoded by the
// exporter; content and elements are fallbacks. A nil document with nil
// error means the item carries no builder data.
func itemDocument(item map[string]json.RawMessage) (*tree.Document, error) {
	raw := rawField(item, "_elementor_data", "content", "elements")
	if raw == nil {
		return nil, nil
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if strings.TrimSpace(encoded) == "" {
			return nil, nil
		}
		raw = []byte(encoded)
	}
	doc, err := tree.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("builder data: %w", err)
	}
	if len(doc.Elements) == 0 {
		return nil, nil
	}
	return doc, nil
}

func (p *Parser) parseMenus(fsys fs.FS, s *Site) {
	raw, err := fs.ReadFile(fsys, "menus.json")
	if err != nil {
		return
	}
	var byName map[string][]any
	if err := json.Unmarshal(raw, &byName); err == nil {
		s.Menus = byName
		return
	}
	var flat []any
	if err := json.Unmarshal(raw, &flat); err == nil {
		s.Menus["primary"] = flat
		return
	}
	p.logger.Warn("site: bad menus.json, ignoring")
}

// collectAssets lists media files under wp-content/uploads and assets,
// the two layouts export kits use.
func collectAssets(fsys fs.FS) []string {
	var out []string
	for _, root := range []string{"wp-content/uploads", "assets"} {
		fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() {
				out = append(out, name)
			}
			return nil
		})
	}
	sort.Strings(out)
	return out
}

func stringField(item map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		if raw, ok := item[k]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				return s
			}
		}
	}
	return ""
}

func intField(item map[string]json.RawMessage, keys ...string) int64 {
	for _, k := range keys {
		if raw, ok := item[k]; ok {
			var n int64
			if json.Unmarshal(raw, &n) == nil && n != 0 {
				return n
			}
		}
	}
	return 0
}

func rawField(item map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if raw, ok := item[k]; ok {
			return raw
		}
	}
	return nil
}

// parseColors accepts both shapes exporters produce: a list of color
// entries, or an object keyed by slot name.
func parseColors(raw json.RawMessage) []GlobalColor {
	if raw == nil {
		return nil
	}
	type entry struct {
		ID    string `json:"_id"`
		Title string `json:"title"`
		Color string `json:"color"`
	}
	var list []entry
	if err := json.Unmarshal(raw, &list); err != nil {
		var byName map[string]entry
		if json.Unmarshal(raw, &byName) != nil {
			return nil
		}
		keys := make([]string, 0, len(byName))
		for k := range byName {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			e := byName[k]
			if e.Title == "" {
				e.Title = k
			}
			list = append(list, e)
		}
	}
	out := make([]GlobalColor, 0, len(list))
	for _, e := range list {
		out = append(out, GlobalColor{ID: e.ID, Title: e.Title, Color: e.Color})
	}
	return out
}

func parseFonts(raw json.RawMessage) []GlobalFont {
	if raw == nil {
		return nil
	}
	type entry struct {
		ID     string `json:"_id"`
		Title  string `json:"title"`
		Family string `json:"typography_font_family"`
		Weight string `json:"typography_font_weight"`
		// Older exports use bare names.
		FamilyAlt string `json:"font_family"`
		WeightAlt string `json:"font_weight"`
	}
	var list []entry
	if err := json.Unmarshal(raw, &list); err != nil {
		var byName map[string]entry
		if json.Unmarshal(raw, &byName) != nil {
			return nil
		}
		keys := make([]string, 0, len(byName))
		for k := range byName {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			e := byName[k]
			if e.Title == "" {
				e.Title = k
			}
			list = append(list, e)
		}
	}
	out := make([]GlobalFont, 0, len(list))
	for _, e := range list {
		f := GlobalFont{ID: e.ID, Title: e.Title, Family: e.Family, Weight: e.Weight}
		if f.Family == "" {
			f.Family = e.FamilyAlt
		}
		if f.Weight == "" {
			f.Weight = e.WeightAlt
		}
		out = append(out, f)
	}
	return out
}

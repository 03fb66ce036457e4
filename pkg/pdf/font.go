package pdf

import (
	"fmt"
	"sort"
)

// FontInfo describes a font used by a document
type FontInfo struct {
	Name       string
	Type       string
	Encoding   string
	Embedded   bool
	Subset     bool
	Unicode    bool
	ObjectNum  int
	Generation int
}

// ExtractFonts lists the fonts referenced by the pages in the given
// range, ordered by object number. A font shared by several pages is
// listed once.
func ExtractFonts(doc *Document, firstPage, lastPage int) ([]*FontInfo, error) {
	if firstPage < 1 {
		firstPage = 1
	}
	if lastPage < 1 || lastPage > doc.NumPages() {
		lastPage = doc.NumPages()
	}

	seen := make(map[Object]bool)
	var result []*FontInfo
	for pageNum := firstPage; pageNum <= lastPage; pageNum++ {
		page, err := doc.GetPage(pageNum)
		if err != nil {
			return nil, err
		}

		fontsObj, err := doc.ResolveObject(page.Resources.Get("Font"))
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		fonts, ok := fontsObj.(Dictionary)
		if !ok {
			continue
		}

		// visit resource names in order so that direct fonts come out stable
		names := make([]Name, 0, len(fonts))
		for name := range fonts {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

		for _, name := range names {
			ref := fonts[name]
			if r, ok := ref.(Reference); ok {
				if seen[r] {
					continue
				}
				seen[r] = true
			}
			info, err := extractFontInfo(doc, ref)
			if err != nil {
				return nil, fmt.Errorf("page %d font %s: %w", pageNum, name, err)
			}
			if info != nil {
				result = append(result, info)
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ObjectNum < result[j].ObjectNum
	})
	return result, nil
}

// extractFontInfo reads a font dictionary. Objects that are not fonts
// give nil.
func extractFontInfo(doc *Document, ref Object) (*FontInfo, error) {
	obj, err := doc.ResolveObject(ref)
	if err != nil {
		return nil, err
	}
	dict, ok := obj.(Dictionary)
	if !ok {
		return nil, nil
	}
	if typ, _ := dict.GetName("Type"); typ != "Font" {
		return nil, nil
	}

	font := &FontInfo{Encoding: "Standard"}
	if name, ok := dict.GetName("BaseFont"); ok {
		font.Name = string(name)
	}
	if subtype, ok := dict.GetName("Subtype"); ok {
		font.Type = string(subtype)
	}

	switch enc := dict.Get("Encoding").(type) {
	case nil:
	case Name:
		font.Encoding = string(enc)
	case Dictionary:
		font.Encoding = "Custom"
		if base, ok := enc.GetName("BaseEncoding"); ok {
			font.Encoding = string(base)
		}
	default:
		font.Encoding = "Custom"
	}

	if descObj, err := doc.ResolveObject(dict.Get("FontDescriptor")); err == nil {
		if desc, ok := descObj.(Dictionary); ok {
			font.Embedded = desc.Get("FontFile") != nil || desc.Get("FontFile2") != nil || desc.Get("FontFile3") != nil
		}
	}

	// subset fonts carry a six letter tag: ABCDEF+Name
	if len(font.Name) > 7 && font.Name[6] == '+' {
		font.Subset = true
		for _, c := range font.Name[:6] {
			if c < 'A' || c > 'Z' {
				font.Subset = false
				break
			}
		}
	}

	font.Unicode = dict.Get("ToUnicode") != nil || font.Type == "Type0"

	if r, ok := ref.(Reference); ok {
		font.ObjectNum = r.ObjectNumber
		font.Generation = r.GenerationNumber
	}
	return font, nil
}

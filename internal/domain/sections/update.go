package sections

import "strings"

// ItemsTextField is the pseudo-field the editor sends when the user edits
// the items list as one text block, one "name|quantity|price" line per item.
const ItemsTextField = "items_text"

// ApplyFieldUpdate returns a new payload equal to current with field set to
// value; every other field is unchanged. The caller's payload is never
// mutated.
//
// For the items list section, an ItemsTextField update is parsed line by
// line into the items sequence instead of being stored verbatim. Parsing is
// total: malformed lines degrade to defaulted segments and never fail, since
// this feeds a live-typing editor that must stay usable mid-edit.
func ApplyFieldUpdate(t Type, current Settings, field string, value interface{}) Settings {
	out := current.Clone()

	if t == TypeItemsList && field == ItemsTextField {
		text, _ := value.(string)
		out["items"] = itemsToWire(ParseItemsText(text))
		return out
	}

	out[field] = value
	return out
}

// ParseItemsText parses an items text block into line items. Each line has
// the shape "name|quantity|price"; missing segments default to "" for name,
// "1" for quantity and "0.00" for price. Blank lines are skipped.
func ParseItemsText(text string) []LineItem {
	items := make([]LineItem, 0)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		item := LineItem{Quantity: "1", Price: "0.00"}
		segments := strings.Split(line, "|")

		if len(segments) > 0 {
			item.Name = strings.TrimSpace(segments[0])
		}
		if len(segments) > 1 && strings.TrimSpace(segments[1]) != "" {
			item.Quantity = strings.TrimSpace(segments[1])
		}
		if len(segments) > 2 && strings.TrimSpace(segments[2]) != "" {
			item.Price = strings.TrimSpace(segments[2])
		}

		items = append(items, item)
	}

	return items
}

// ItemsText renders the items sequence back into the editor's text block
// form, the inverse of ParseItemsText for well-formed items.
func ItemsText(items []LineItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.Name+"|"+item.Quantity+"|"+item.Price)
	}
	return strings.Join(lines, "\n")
}

// itemsToWire converts line items into the generic wire form stored inside
// a Settings map.
func itemsToWire(items []LineItem) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]interface{}{
			"name":     item.Name,
			"quantity": item.Quantity,
			"price":    item.Price,
		})
	}
	return out
}

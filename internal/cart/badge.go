package cart

import "strconv"

// BadgeLabel renders the item count shown on the cart icon: nothing for an empty
// cart and "99+" beyond 99 items.
func BadgeLabel(totalItems int) string {
	switch {
	case totalItems <= 0:
		return ""
	case totalItems > 99:
		return "99+"
	default:
		return strconv.Itoa(totalItems)
	}
}

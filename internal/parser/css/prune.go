package css

import "slices"

// Prune removes every Comment from every collection reachable from n and
// returns how many were removed. Collections are filtered in place; surviving
// nodes are pruned recursively.
func Prune(n Node) int {
	removed := 0
	for _, list := range n.Children() {
		*list = slices.DeleteFunc(*list, func(child Node) bool {
			if child.Kind() == KindComment {
				removed++
				return true
			}
			removed += Prune(child)
			return false
		})
	}
	return removed
}

// CountComments returns the number of Comment nodes at any depth below n
func CountComments(n Node) int {
	count := 0
	Walk(n, func(node Node) bool {
		if node.Kind() == KindComment {
			count++
		}
		return true
	})
	return count
}

package normalize

import "strings"

// DefaultPriority is used for "no priority" and for codes the table does not know.
const DefaultPriority = 1

// priorities inverts the source scale (1 = highest) into the destination
// scale (4 = highest). Both the live API codes and the export codes are listed.
var priorities = map[string]int{
	"N":  1,
	"PN": 1,
	"1":  4,
	"P1": 4,
	"2":  3,
	"P2": 3,
	"3":  2,
	"P3": 2,
}

func Priority(code string) int {
	if p, ok := priorities[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return p
	}
	return DefaultPriority
}

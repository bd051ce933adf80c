// Package inspector looks for the route-registration object of a route inside
// a minified bundle. It only reports what it finds.
//
// The patterns stop at the first closing brace after the route, so an element
// with a nested object literal is cut short. Duplicating the route under a
// new path would need a balanced scan of the enclosing call and is not done
// here.
package inspector

import (
	"regexp"
	"strconv"

	"github.com/sokinpui/routepatch/model"
)

// DefaultRoute is the route the inspector looks for.
const DefaultRoute = "/founder"

// Patterns returns the compact and the spaced pattern for route, in the
// order they are tried.
func Patterns(route string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(strconv.Quote(route))
	return []*regexp.Regexp{
		regexp.MustCompile(`\{path:` + quoted + `,element:[^}]+\}\)`),
		regexp.MustCompile(`\{path: ` + quoted + `, element:[^}]+\}\)`),
	}
}

// Inspect returns the first route object for DefaultRoute.
func Inspect(content string) (model.Match, bool) {
	return InspectRoute(content, DefaultRoute)
}

// InspectRoute tries each pattern in turn and returns the first hit.
func InspectRoute(content, route string) (model.Match, bool) {
	for _, re := range Patterns(route) {
		loc := re.FindStringIndex(content)
		if loc == nil {
			continue
		}
		return model.Match{
			Text:    content[loc[0]:loc[1]],
			Start:   loc[0],
			End:     loc[1],
			Pattern: re.String(),
		}, true
	}
	return model.Match{}, false
}

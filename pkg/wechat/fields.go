package wechat

import "strings"

// profileFieldMap maps normalized profile field names to WeChat field names.
var profileFieldMap = map[string][]string{
	"id":          {"id"},
	"username":    {"username"},
	"displayName": {"name"},
	"name":        {"last_name", "first_name", "middle_name"},
	"gender":      {"gender"},
	"birthday":    {"birthday"},
	"profileUrl":  {"link"},
	"emails":      {"email"},
	"photos":      {"picture"},
}

// convertProfileFields maps normalized field names to WeChat field names and
// joins them with commas. Unknown names are passed through unchanged so that
// WeChat-only fields can be requested directly.
func convertProfileFields(fields []string) string {
	native := make([]string, 0, len(fields))
	for _, f := range fields {
		if mapped, ok := profileFieldMap[f]; ok {
			native = append(native, mapped...)
			continue
		}
		native = append(native, f)
	}
	return strings.Join(native, ",")
}

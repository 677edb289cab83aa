package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                          "/",
		"/metrics":                  "/metrics",
		"/user/42/":                 "/user/:id/",
		"/user/username/alice/":     "/user/username/alice/",
		"/subject/grade/3/":         "/subject/grade/:id/",
		"/organization/7/":          "/organization/:id/",
		"/organization/?page=2":     "/organization/",
		"/role/":                    "/role/",
		"/user/change-password/19/": "/user/change-password/:id/",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}

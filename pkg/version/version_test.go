package version

import "testing"

func TestAppID(t *testing.T) {
	prev := Current
	Current = "v1.2.3"
	t.Cleanup(func() { Current = prev })

	if got := AppID(); got != "liquidity-v1.2.3" {
		t.Errorf("AppID() = %q", got)
	}
}

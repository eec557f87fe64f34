// Package testing provides a deterministic harness for reactive hosts.
//
// # Quick Start
//
// Create a tester, mount a component, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := reactivetest.NewHostTesterWithT(t)
//	    counter := &components.Counter{}
//	    host, err := tester.Mount(counter)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//
//	    counter.Inc()
//	    tester.Pump()
//
//	    if got := tester.LastOutput(host); got != "[-] 1 [+]" {
//	        t.Errorf("unexpected output %v", got)
//	    }
//	}
//
// # Time
//
// The loop runs on a FakeClock. Advance moves it forward and runs every
// timer that came due:
//
//	tester.Advance(3 * time.Second)
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import reactivetest "github.com/go-drift/reactive/pkg/testing"
package testing

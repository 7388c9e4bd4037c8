package eventloop_test

import (
	"fmt"
	"time"

	"github.com/highperapp/reliacore/eventloop"
)

func ExampleHybrid_Metrics() {
	h := eventloop.NewHybrid(eventloop.HybridConfig{Threshold: 1024, Hysteresis: 128, AutoSwitch: true})

	fmt.Println("initial backend:", h.Metrics().BackendInUse)

	h.AddConnectionCount(2000)
	fmt.Println("backend after load:", h.Metrics().BackendInUse)
	// Output:
	// initial backend: primary
	// backend after load: accelerated
}

func Example_primaryBackendDelay() {
	b := eventloop.NewPrimaryBackend()
	go b.Run()
	defer b.Stop()

	done := make(chan struct{})
	b.Delay(time.Millisecond, func() {
		fmt.Println("fired")
		close(done)
	})
	<-done
	// Output:
	// fired
}

package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/novhub/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryTracker(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new tracker", t, func() {
		tr := dedupe.NewInMemoryTracker()

		Convey("When a key is claimed for the first time", func() {
			seen := tr.Claim(ctx, "k1")

			Convey("Then it is new and remembered", func() {
				So(seen, ShouldBeFalse)
				So(tr.Size(), ShouldEqual, 1)
			})

			Convey("And claiming it again reports a duplicate", func() {
				So(tr.Claim(ctx, "k1"), ShouldBeTrue)
				So(tr.Size(), ShouldEqual, 1)
			})

			Convey("And releasing it allows a retry", func() {
				tr.Release(ctx, "k1")
				So(tr.Size(), ShouldEqual, 0)
				So(tr.Claim(ctx, "k1"), ShouldBeFalse)
			})
		})

		Convey("When releasing an unknown key", func() {
			tr.Release(ctx, "missing")

			Convey("Then nothing changes", func() {
				So(tr.Size(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a bounded tracker", t, func() {
		tr := dedupe.NewInMemoryTracker(dedupe.WithMaxSize(2), dedupe.WithTTL(0))

		Convey("When more keys than the bound are claimed", func() {
			tr.Claim(ctx, "a")
			tr.Claim(ctx, "b")
			tr.Claim(ctx, "c")

			Convey("Then the oldest claim is forgotten", func() {
				So(tr.Size(), ShouldEqual, 2)
				So(tr.Claim(ctx, "c"), ShouldBeTrue)
				So(tr.Claim(ctx, "b"), ShouldBeTrue)
				So(tr.Claim(ctx, "a"), ShouldBeFalse)
			})
		})
	})

	Convey("Given an expiring tracker", t, func() {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		tr := dedupe.NewInMemoryTracker(dedupe.WithTTL(time.Minute), dedupe.WithClock(clock))

		Convey("When the ttl elapses", func() {
			tr.Claim(ctx, "k")
			now = now.Add(2 * time.Minute)

			Convey("Then the claim is gone", func() {
				So(tr.Size(), ShouldEqual, 0)
				So(tr.Claim(ctx, "k"), ShouldBeFalse)
			})
		})
	})

	Convey("Given concurrent claims of the same key", t, func() {
		tr := dedupe.NewInMemoryTracker()
		var wg sync.WaitGroup
		var mu sync.Mutex
		fresh := 0

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !tr.Claim(ctx, "same") {
					mu.Lock()
					fresh++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one caller wins", func() {
			So(fresh, ShouldEqual, 1)
		})
	})

	Convey("Given many distinct keys", t, func() {
		tr := dedupe.NewInMemoryTracker(dedupe.WithMaxSize(0))
		for i := 0; i < 100; i++ {
			So(tr.Claim(ctx, fmt.Sprintf("k-%d", i)), ShouldBeFalse)
		}

		Convey("Then an unbounded tracker keeps them all", func() {
			So(tr.Size(), ShouldEqual, 100)
		})
	})
}

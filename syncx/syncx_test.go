// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package syncx

import (
	"errors"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"go.astrophena.name/sourceheaders/testutil"
)

func TestLazy(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var l Lazy[int]
		var calls atomic.Int32

		f := func() int { return int(calls.Add(1)) }

		for range 10 {
			go l.Get(f)
		}
		synctest.Wait()

		testutil.AssertEqual(t, l.Get(f), 1)
		testutil.AssertEqual(t, int(calls.Load()), 1)

		var l2 Lazy[string]
		errBoom := errors.New("something went wrong")
		f2 := func() (string, error) { return "", errBoom }

		for range 2 {
			v, err := l2.GetErr(f2)
			testutil.AssertEqual(t, v, "")
			if !errors.Is(err, errBoom) {
				t.Fatalf("want %v, got %v", errBoom, err)
			}
		}
	})
}

func TestLimitedWaitGroup(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		limit, tasks, want int
	}{
		"limit below tasks": {limit: 5, tasks: 20, want: 5},
		"limit above tasks": {limit: 8, tasks: 3, want: 3},
		"zero limit":        {limit: 0, tasks: 4, want: 1},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				lwg := NewLimitedWaitGroup(tc.limit)
				var running, maxConcurrent, done atomic.Int32

				for range tc.tasks {
					lwg.Go(func() {
						v := running.Add(1)
						defer running.Add(-1)
						for {
							m := maxConcurrent.Load()
							if v <= m || maxConcurrent.CompareAndSwap(m, v) {
								break
							}
						}
						time.Sleep(100 * time.Millisecond)
						done.Add(1)
					})
				}
				lwg.Wait()

				testutil.AssertEqual(t, int(maxConcurrent.Load()), tc.want)
				testutil.AssertEqual(t, int(done.Load()), tc.tasks)
			})
		})
	}
}

func TestLimitedWaitGroupOrder(t *testing.T) {
	t.Parallel()

	lwg := NewLimitedWaitGroup(1)
	var got []int
	for i := range 5 {
		lwg.Go(func() { got = append(got, i) })
	}
	lwg.Wait()
	testutil.AssertEqual(t, got, []int{0, 1, 2, 3, 4})
}

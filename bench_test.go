package overload_test

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/struct0x/overload"
)

type benchPoint struct {
	X, Y int
}

type benchReceiver struct {
	overload.Bindings
	hits uint64
}

var (
	regBench    = overload.NewRegistry()
	sealedBench *overload.SealedRegistry
	methodBench *overload.MethodGroup[*benchReceiver]
)

var u64Sink uint64

func init() {
	_ = regBench.Register(overload.Func(func(s string, n int) {
		atomic.AddUint64(&u64Sink, 1)
	}, overload.Arg("s"), overload.Arg("n")))
	_ = regBench.Register(overload.Func(func(p benchPoint, n int) {
		atomic.AddUint64(&u64Sink, uint64(p.X))
	}, overload.Arg("p"), overload.Arg("n")))
	_ = regBench.Register(overload.Func(func(p any, n any) {}, overload.Arg("p"), overload.Arg("n")))

	sealedBench = regBench.Seal()

	methodBench = overload.NewMethod[*benchReceiver](overload.Method(func(r *benchReceiver, p benchPoint) {
		atomic.AddUint64(&r.hits, 1)
	}, overload.Arg("p")))
}

func BenchmarkDispatch(b *testing.B) {
	b.SetParallelism(runtime.GOMAXPROCS(0))
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(b *testing.PB) {
		args := []any{benchPoint{X: 1, Y: 2}, 3}
		var localErr error
		for b.Next() {
			_, localErr = regBench.Dispatch(args, nil)
		}
		_ = localErr
	})
}

func BenchmarkDispatchSealed(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(b *testing.PB) {
		args := []any{benchPoint{X: 1, Y: 2}, 3}
		var localErr error
		for b.Next() {
			_, localErr = sealedBench.Dispatch(args, nil)
		}
		_ = localErr
	})
}

func BenchmarkMethodCall(b *testing.B) {
	recv := &benchReceiver{}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(b *testing.PB) {
		var localErr error
		for b.Next() {
			_, localErr = methodBench.Call(recv, benchPoint{X: 1})
		}
		_ = localErr
	})
}

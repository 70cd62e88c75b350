// Package benchmark provides performance benchmarks for RelayMesh.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Run relay fan-out at specific channel counts:
//
//	go test -bench=BenchmarkRelayPublish -benchmem -benchtime=10s ./internal/tests/benchmark/...
//
// Compare results:
//
//	go test -bench=. -benchmem -count=5 ./internal/tests/benchmark/... | tee benchmark.txt
//	benchstat old.txt new.txt
package benchmark

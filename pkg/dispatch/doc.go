// Package dispatch fans a template out to every engine in an active set and
// joins on all of them, converting errors and panics into failure outcomes.
// It also provides the warmup pass run once before a worker starts serving.
package dispatch

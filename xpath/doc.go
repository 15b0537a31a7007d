// Package xpath carries the minimal expression surface the node model is
// queried through: typed values, an evaluation context holding the context
// node, and the starts-with function. The full expression tree and function
// library live in the query engine outside this repository; everything here
// honors the same Expression contract.
package xpath

// Package diag turns route declaration and manifest problems into coded,
// explained diagnostics for terminal display.
//
// The route tree reports every declaration defect it finds in one pass.
// Raw error strings are accurate but terse; diag maps each one onto a
// registered code that carries:
//   - A short message naming the problem
//   - A detailed explanation of why the declaration is rejected
//   - A hint showing how to fix it, often with a corrected declaration
//   - A documentation URL
//
// # Categories
//
// Diagnostics fall into three categories:
//   - declaration: defects in the route tree itself (duplicate names,
//     bad patterns, unusable gate fallbacks)
//   - manifest: problems reading or decoding an exported manifest file
//   - usage: command-line misuse
//
// # Usage
//
//	problems := diag.ClassifyAll(err)
//	for _, p := range problems {
//	    fmt.Fprint(os.Stderr, p.Format())
//	}
//	// Output:
//	// ERROR W003: Gate fallback is not a named route
//	//
//	//   gate fallback "login" does not name a route
//	//
//	//   Every gate names the route unauthenticated visitors are sent
//	//   to. The name must belong to a route declared in the same tree.
//	//
//	//   Hint: Declare the fallback route and give it a Name.
//	//
//	//   Learn more: https://wayfind.dev/docs/errors/W003
package diag

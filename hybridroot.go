// Package hybridroot finds a root of f(x) by averaging a Newton step with the
// value of a companion fixed-point function g(x).
//
// Each iteration computes
//
//	xNewton = x - f(x)/f'(x)
//	xFixed  = g(x)
//	xNext   = (xNewton + xFixed) / 2
//
// and stops once |xNext - x| < tol. The iteration is local and best effort:
// it reports non-convergence and numeric failures as Outcome values rather
// than errors.
//
// Expressions are given as text and compiled by package symbolic, which also
// supplies f' either symbolically or by dual-number differentiation:
//
//	p, err := hybridroot.CompileRequest(hybridroot.Input{
//	    F: "x^2 - 4", G: "x", X0: 3, Tol: 1e-6, MaxIter: 100,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	o := p.Solve()
//	fmt.Println(o.Message(p.Tol))
package hybridroot

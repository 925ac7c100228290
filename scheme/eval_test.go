// Copyright © 2025 The Lambdust authors

package scheme_test

import (
	"testing"

	"github.com/akasaka-miraina/lambdust-sub006/schemetest"
)

func TestSpecialForms(t *testing.T) {
	tests := schemetest.TestSuite{
		{"if", schemetest.TestSequence{
			{"(if #t 1 2)", "1", ""},
			{"(if #f 1 2)", "2", ""},
			{"(if #f 1)", "#<unspecified>", ""},
			{"(if 0 'yes 'no)", "yes", ""},
			{"(if '() 'yes 'no)", "yes", ""},
			{"(if \"\" 'yes 'no)", "yes", ""},
			{"(if)", "test:1:1: if: expected 2 or 3 forms, got 0", ""},
		}},
		{"define and set!", schemetest.TestSequence{
			{"(define x 10)", "#<unspecified>", ""},
			{"x", "10", ""},
			{"(set! x (+ x 1))", "#<unspecified>", ""},
			{"x", "11", ""},
			{"(define x 'fresh)", "#<unspecified>", ""},
			{"x", "fresh", ""},
			{"(set! missing 1)", "test:1:1: unbound-symbol: set!: unbound symbol: missing", ""},
			{"missing", "test:1:1: unbound-symbol: unbound symbol: missing", ""},
		}},
		{"begin", schemetest.TestSequence{
			{"(begin 1 2 3)", "3", ""},
			{"(begin)", "#<unspecified>", ""},
			{"(begin (define y 1) (set! y (+ y 1)) y)", "2", ""},
		}},
		{"and and or", schemetest.TestSequence{
			{"(and)", "#t", ""},
			{"(and 1 2)", "2", ""},
			{"(and #f (error \"not reached\"))", "#f", ""},
			{"(or)", "#f", ""},
			{"(or #f 2)", "2", ""},
			{"(or 1 (error \"not reached\"))", "1", ""},
			{"(or #f #f)", "#f", ""},
		}},
		{"when and unless", schemetest.TestSequence{
			{"(when (< 1 2) 'a 'b)", "b", ""},
			{"(when (> 1 2) 'a)", "#<unspecified>", ""},
			{"(unless (> 1 2) 'a)", "a", ""},
			{"(unless (< 1 2) 'a)", "#<unspecified>", ""},
			{"(when #t)", "test:1:1: when: expected a test and a body", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestQuote(t *testing.T) {
	tests := schemetest.TestSuite{
		{"quote", schemetest.TestSequence{
			{"'a", "a", ""},
			{"'(1 2 3)", "(1 2 3)", ""},
			{"'(1 2 . 3)", "(1 2 . 3)", ""},
			{"''x", "'x", ""},
			{"(quote (a b))", "(a b)", ""},
			{"(quote)", "test:1:1: quote: expected 1 form, got 0", ""},
		}},
		{"quoted data is fresh on every evaluation", schemetest.TestSequence{
			{"(define (fresh) '(1 2))", "#<unspecified>", ""},
			{"(set-car! (fresh) 99)", "#<unspecified>", ""},
			{"(fresh)", "(1 2)", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestQuasiquote(t *testing.T) {
	tests := schemetest.TestSuite{
		{"templates", schemetest.TestSequence{
			{"`x", "x", ""},
			{"`(1 ,(+ 1 1) 3)", "(1 2 3)", ""},
			{"`(a ,@(list 1 2) b)", "(a 1 2 b)", ""},
			{"`(,@(list 1 2))", "(1 2)", ""},
			{"`(1 . ,(+ 1 1))", "(1 . 2)", ""},
			{"`#(1 ,(+ 1 1) ,@(list 3 4))", "#(1 2 3 4)", ""},
			{"`(a `(b ,(c)))", "(a `(b ,(c)))", ""},
			{"`(1 ,@5)", "test:1:1: unquote-splicing: not a list: 5", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestLambda(t *testing.T) {
	tests := schemetest.TestSuite{
		{"application", schemetest.TestSequence{
			{"((lambda (x y) (+ x y)) 1 2)", "3", ""},
			{"((lambda args args) 1 2 3)", "(1 2 3)", ""},
			{"((lambda (a . rest) (cons a rest)) 1 2 3)", "(1 2 3)", ""},
			{"((lambda (a . rest) rest) 1)", "()", ""},
		}},
		{"closures capture their environment", schemetest.TestSequence{
			{"(define (make-counter) (let ((n 0)) (lambda () (set! n (+ n 1)) n)))", "#<unspecified>", ""},
			{"(define c1 (make-counter))", "#<unspecified>", ""},
			{"(define c2 (make-counter))", "#<unspecified>", ""},
			{"(c1)", "1", ""},
			{"(c1)", "2", ""},
			{"(c2)", "1", ""},
		}},
		{"docstrings", schemetest.TestSequence{
			{"(define (doc2 x) \"Doubles x.\" (* x 2))", "#<unspecified>", ""},
			{"(doc2 4)", "8", ""},
			{"(define (s) \"just a string\")", "#<unspecified>", ""},
			{"(s)", "\"just a string\"", ""},
		}},
		{"arity", schemetest.TestSequence{
			{"(define (one x) x)", "#<unspecified>", ""},
			{"(one 1 2)", "test:1:1: wrong-number-of-arguments: one: expected 1 arguments, got 2", ""},
			{"(one)", "test:1:1: wrong-number-of-arguments: one: expected 1 arguments, got 0", ""},
			{"(define (two+ a b . r) r)", "#<unspecified>", ""},
			{"(two+ 1 2)", "()", ""},
			{"(two+ 1 2 3 4)", "(3 4)", ""},
			{"(two+ 1)", "test:1:1: wrong-number-of-arguments: two+: expected at least 2 arguments, got 1", ""},
		}},
		{"malformed", schemetest.TestSequence{
			{"(lambda)", "test:1:1: lambda: expected formals and a body", ""},
			{"(lambda (x))", "test:1:1: lambda: empty body", ""},
			{"(lambda (1) 1)", "test:1:1: formal parameter is not a symbol: 1", ""},
		}},
		{"values are not applicable", schemetest.TestSequence{
			{"(5 1)", "test:1:1: cannot apply fixnum value: 5", ""},
			{"(\"f\" 1)", "test:1:1: cannot apply string value: \"f\"", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestCaseLambda(t *testing.T) {
	tests := schemetest.TestSuite{
		{"dispatch on arity", schemetest.TestSequence{
			{"(define cl (case-lambda ((x) 1) ((x y) 2) ((x . rest) 'many)))", "#<unspecified>", ""},
			{"cl", "#<case-lambda cl>", ""},
			{"(cl 'a)", "1", ""},
			{"(cl 'a 'b)", "2", ""},
			{"(cl 'a 'b 'c)", "many", ""},
			{"(cl)", "test:1:1: wrong-number-of-arguments: cl: no clause accepts 0 arguments", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestLet(t *testing.T) {
	tests := schemetest.TestSuite{
		{"let", schemetest.TestSequence{
			{"(let ((x 1) (y 2)) (+ x y))", "3", ""},
			{"(define z 1)", "#<unspecified>", ""},
			{"(let ((z 2)) z)", "2", ""},
			{"z", "1", ""},
			{"(let ((x 5)) (let ((x 1) (y (+ x 1))) y))", "6", ""},
			{"(let)", "test:1:1: let: expected bindings and a body", ""},
			{"(let ((x)) x)", "test:1:1: malformed binding: (x)", ""},
		}},
		{"let*", schemetest.TestSequence{
			{"(let ((x 5)) (let* ((x 1) (y (+ x 1))) y))", "2", ""},
			{"(let* () 'ok)", "ok", ""},
		}},
		{"letrec", schemetest.TestSequence{
			{"(letrec ((dec (lambda (n) (if (zero? n) 'done (dec (- n 1)))))) (dec 10))", "done", ""},
			{"(letrec ((even2? (lambda (n) (if (zero? n) #t (odd2? (- n 1))))) (odd2? (lambda (n) (if (zero? n) #f (even2? (- n 1)))))) (even2? 10))", "#t", ""},
		}},
		{"named let", schemetest.TestSequence{
			{"(let loop ((n 5) (acc 1)) (if (> n 0) (loop (- n 1) (* acc n)) acc))", "120", ""},
			{"(let loop ((n 10000)) (if (> n 0) (loop (- n 1)) 'done))", "done", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestCondAndCase(t *testing.T) {
	tests := schemetest.TestSuite{
		{"cond", schemetest.TestSequence{
			{"(cond (#f 1) (else 2))", "2", ""},
			{"(cond ((> 2 1) 'yes))", "yes", ""},
			{"(cond (#f 1))", "#<unspecified>", ""},
			{"(cond (42))", "42", ""},
			{"(cond ((assv 2 '((1 . one) (2 . two))) => cdr) (else 'none))", "two", ""},
			{"(cond (1 => 2))", "test:1:1: cannot apply fixnum value: 2", ""},
			{"(cond 1)", "test:1:1: cond: malformed clause: 1", ""},
		}},
		{"case", schemetest.TestSequence{
			{"(case (* 2 3) ((2 3 5 7) 'prime) ((1 4 6 8 9) 'composite))", "composite", ""},
			{"(case 'z ((a) 1) (else 'other))", "other", ""},
			{"(case 9 ((1) 'one))", "#<unspecified>", ""},
			{"(case)", "test:1:1: case: expected a key and clauses", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestApplyAndEval(t *testing.T) {
	tests := schemetest.TestSuite{
		{"apply", schemetest.TestSequence{
			{"(apply + 1 2 '(3 4))", "10", ""},
			{"(apply cons '(1 2))", "(1 . 2)", ""},
			{"(apply list '())", "()", ""},
			{"(apply + 1)", "test:1:1: apply: last argument is not a list: 1", ""},
		}},
		{"eval", schemetest.TestSequence{
			{"(eval '(+ 1 2))", "3", ""},
			{"(eval (list '* 2 3))", "6", ""},
			{"(define form '(list 1 2))", "#<unspecified>", ""},
			{"(eval form)", "(1 2)", ""},
		}},
		{"procedure?", schemetest.TestSequence{
			{"(procedure? car)", "#t", ""},
			{"(procedure? 'car)", "#f", ""},
			{"(procedure? (lambda (x) x))", "#t", ""},
			{"(procedure? (case-lambda ((x) x)))", "#t", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestCallCC(t *testing.T) {
	tests := schemetest.TestSuite{
		{"escape", schemetest.TestSequence{
			{"(call/cc (lambda (k) (+ 1 (k 42))))", "42", ""},
			{"(+ 1 (call/cc (lambda (k) 10)))", "11", ""},
			{"(+ 1 (call/cc (lambda (k) (+ 10 (k 100)))))", "101", ""},
			{"(call-with-current-continuation (lambda (k) (k 'ok)))", "ok", ""},
		}},
		{"nested continuations unwind to their own call", schemetest.TestSequence{
			{"(call/cc (lambda (k1) (+ 100 (call/cc (lambda (k2) (k1 42))))))", "42", ""},
			{"(call/cc (lambda (k1) (+ 100 (call/cc (lambda (k2) (k2 1))))))", "101", ""},
		}},
		{"escape from iteration", schemetest.TestSequence{
			{"(define (first-over lst limit) (call/cc (lambda (return) (for-each (lambda (x) (when (> x limit) (return x))) lst) #f)))", "#<unspecified>", ""},
			{"(first-over '(1 3 4 5) 3)", "4", ""},
			{"(first-over '(1 2) 10)", "#f", ""},
		}},
		{"continuations expire with their extent", schemetest.TestSequence{
			{"(define saved #f)", "#<unspecified>", ""},
			{"(call/cc (lambda (k) (set! saved k) 1))", "1", ""},
			{"(saved 5)", "test:1:1: expired-continuation: continuation gen00000001 called outside its dynamic extent", ""},
		}},
		{"continuations take at most one value", schemetest.TestSequence{
			{"(call/cc (lambda (k) (k 1 2)))", "test:1:22: wrong-number-of-arguments: continuation gen00000001: expected at most 1 argument, got 2", ""},
		}},
		{"argument must be applicable", schemetest.TestSequence{
			{"(call/cc 5)", "test:1:1: call/cc: not a procedure: 5", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestDelayAndForce(t *testing.T) {
	tests := schemetest.TestSuite{
		{"promises memoize", schemetest.TestSequence{
			{"(define count 0)", "#<unspecified>", ""},
			{"(define p (delay (begin (set! count (+ count 1)) count)))", "#<unspecified>", ""},
			{"p", "#<promise>", ""},
			{"(force p)", "1", ""},
			{"(force p)", "1", ""},
			{"count", "1", ""},
			{"p", "#<promise forced>", ""},
		}},
		{"force of a non-promise", schemetest.TestSequence{
			{"(force 42)", "42", ""},
			{"(force 'sym)", "sym", ""},
		}},
		{"make-promise", schemetest.TestSequence{
			{"(make-promise 5)", "#<promise forced>", ""},
			{"(force (make-promise 5))", "5", ""},
			{"(promise? (make-promise 5))", "#t", ""},
			{"(promise? 5)", "#f", ""},
		}},
		{"delay arity", schemetest.TestSequence{
			{"(delay)", "test:1:1: delay: expected 1 form, got 0", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestParameters(t *testing.T) {
	tests := schemetest.TestSuite{
		{"parameterize", schemetest.TestSequence{
			{"(define p (make-parameter 10))", "#<unspecified>", ""},
			{"p", "#<parameter p>", ""},
			{"(p)", "10", ""},
			{"(parameterize ((p 20)) (p))", "20", ""},
			{"(p)", "10", ""},
			{"(parameterize ((p 1)) (parameterize ((p 2)) (p)))", "2", ""},
			{"(p 1)", "test:1:1: wrong-number-of-arguments: parameter p: expected 0 arguments, got 1", ""},
		}},
		{"dynamic bindings unwind on error", schemetest.TestSequence{
			{"(define p (make-parameter 10))", "#<unspecified>", ""},
			{"(parameterize ((p 9)) (error \"inner\"))", "test:1:23: error: inner", ""},
			{"(p)", "10", ""},
		}},
		{"converters", schemetest.TestSequence{
			{"(define q (make-parameter 5 (lambda (v) (* v 2))))", "#<unspecified>", ""},
			{"(q)", "10", ""},
			{"(parameterize ((q 3)) (q))", "6", ""},
			{"(q)", "10", ""},
			{"(make-parameter 1 2)", "test:1:1: make-parameter: converter is not a procedure: 2", ""},
		}},
		{"only parameters parameterize", schemetest.TestSequence{
			{"(parameterize ((car 1)) 1)", "test:1:1: parameterize: not a parameter: #<builtin car>", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestRecords(t *testing.T) {
	tests := schemetest.TestSuite{
		{"define-record-type", schemetest.TestSequence{
			{"(define-record-type point (make-point x y) point? (x point-x set-point-x!) (y point-y))", "#<unspecified>", ""},
			{"point", "#<record-type point>", ""},
			{"(define pt (make-point 1 2))", "#<unspecified>", ""},
			{"(point? pt)", "#t", ""},
			{"(point? 5)", "#f", ""},
			{"(point-x pt)", "1", ""},
			{"(point-y pt)", "2", ""},
			{"(set-point-x! pt 10)", "#<unspecified>", ""},
			{"(point-x pt)", "10", ""},
			{"pt", "#<point x:10 y:2>", ""},
			{"(make-point 1)", "test:1:1: wrong-number-of-arguments: make-point: expected 2 arguments, got 1", ""},
			{"(point-x 5)", "test:1:1: wrong-type: point-x: not a record: 5", ""},
		}},
		{"accessors check the record type", schemetest.TestSequence{
			{"(define-record-type box (make-box v) box? (v unbox))", "#<unspecified>", ""},
			{"(define-record-type tag (make-tag t) tag? (t tag-t))", "#<unspecified>", ""},
			{"(box? (make-tag 1))", "#f", ""},
			{"(unbox (make-tag 1))", "test:1:1: wrong-type: unbox: not a box record: #<tag t:1>", ""},
		}},
		{"constructors may take a field subset", schemetest.TestSequence{
			{"(define-record-type cell (make-cell v) cell? (v cell-v) (tag cell-tag))", "#<unspecified>", ""},
			{"(cell-tag (make-cell 1))", "#<unspecified>", ""},
			{"(make-cell 1)", "#<cell v:1 tag:#<unspecified>>", ""},
		}},
		{"records compare by identity", schemetest.TestSequence{
			{"(define-record-type pt (mk a) pt? (a geta))", "#<unspecified>", ""},
			{"(equal? (mk 1) (mk 1))", "#f", ""},
			{"(let ((r (mk 1))) (eqv? r r))", "#t", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestEquivalence(t *testing.T) {
	tests := schemetest.TestSuite{
		{"eq? and eqv?", schemetest.TestSequence{
			{"(eq? 'a 'a)", "#t", ""},
			{"(eq? 'a 'b)", "#f", ""},
			{"(eq? '() '())", "#t", ""},
			{"(eqv? 100 100)", "#t", ""},
			{"(eqv? 1.5 1.5)", "#t", ""},
			{"(eqv? \"a\" \"a\")", "#t", ""},
			{"(eqv? 'a \"a\")", "#f", ""},
			{"(eq? (list 1) (list 1))", "#f", ""},
			{"(let ((v (vector 1))) (eqv? v v))", "#t", ""},
			{"(eqv? (vector 1) (vector 1))", "#f", ""},
			{"(eqv? #u8(1) #u8(1))", "#f", ""},
		}},
		{"equal?", schemetest.TestSequence{
			{"(equal? '(1 (2 #(3))) '(1 (2 #(3))))", "#t", ""},
			{"(equal? '(1 2) '(1 3))", "#f", ""},
			{"(equal? \"abc\" \"abc\")", "#t", ""},
			{"(equal? #u8(1 2) #u8(1 2))", "#t", ""},
			{"(equal? 5 (exact->inexact 5))", "#f", ""},
			{"(= 5 (exact->inexact 5))", "#t", ""},
		}},
		{"not", schemetest.TestSequence{
			{"(not #f)", "#t", ""},
			{"(not 0)", "#f", ""},
			{"(not '())", "#f", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestPredicates(t *testing.T) {
	tests := schemetest.TestSuite{
		{"tag predicates", schemetest.TestSequence{
			{"(null? '())", "#t", ""},
			{"(null? '(1))", "#f", ""},
			{"(pair? '(1))", "#t", ""},
			{"(pair? '())", "#f", ""},
			{"(boolean? #f)", "#t", ""},
			{"(boolean? 0)", "#f", ""},
			{"(symbol? 'a)", "#t", ""},
			{"(symbol? \"a\")", "#f", ""},
			{"(string? \"a\")", "#t", ""},
			{"(char? #\\a)", "#t", ""},
			{"(vector? (vector))", "#t", ""},
			{"(bytevector? #u8())", "#t", ""},
			{"(keyword? #:k)", "#t", ""},
			{"(keyword? 'k)", "#f", ""},
			{"(eof-object? (eof-object))", "#t", ""},
			{"(eof-object? '())", "#f", ""},
		}},
		{"list?", schemetest.TestSequence{
			{"(list? '(1 2))", "#t", ""},
			{"(list? '())", "#t", ""},
			{"(list? '(1 . 2))", "#f", ""},
			{"(list? 5)", "#f", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

/*
Package pypred compiles and evaluates natural-language predicates -
boolean expressions such as `name is 'Jack' and age > 30` - against
schemaless documents.

A single Predicate is useful on its own, but the package's real purpose is
evaluating large sets of predicates against each document in one pass:
OptimizedPredicateSet merges every predicate's AST into a single decision
tree, then algebraically rewrites that tree so each shared sub-expression
is evaluated at most once and its truth value prunes whole branches.
*/
package pypred

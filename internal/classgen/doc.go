// Package classgen compiles .classes declaration files into Go source code
// backed by the classes runtime package.
//
// The pipeline consists of:
//   - [Lexer]: tokenizes .classes source into a token stream
//   - [Parser]: builds an AST from the token stream
//   - [Analyzer]: validates class sets with the runtime analysis and folds known conditions
//   - [Generator]: emits plans, pre-rendered tables and constructor functions
package classgen

// Package knowledgebase loads the offline first-aid instructions the
// assistant answers from. Each language lives in its own <lang>.json file; a
// language without a file is served the English base.
package knowledgebase

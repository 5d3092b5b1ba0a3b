/*
Package field abstracts the editable text surfaces found on a page.

	+-----------+      +----------------+
	| Collector | ---> | []Field        |
	+-----------+      | value/content  |
	                   +-------+--------+
	                           |
	             Text / SetText / DispatchEvent

🎯 Purpose:
- Hide the value-bearing / content-bearing split from the substitution code
- Fire the input + change notification pair after a field is rewritten

🤝 Implementations:
- htmldoc: inputs, textareas and contenteditable nodes of a parsed HTML document
- browser: the same element sets on a live page driven over the DevTools protocol
- clipboard: the system clipboard as a single value-bearing field
- Memory: in-memory fields for previews and tests
*/
package field

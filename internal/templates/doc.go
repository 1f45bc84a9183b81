// Package templates implements the talc template directive language.
//
// Templates are plain HTML with directives embedded in comments:
//
//	<!-- talc:for:files -->...<!-- talc:endfor -->
//	<!-- talc:if:[update_date] -->...<!-- talc:endif -->
//	<!-- talc:import:partials/header.html -->
//	<!-- talc:asset:css/site.css -->
//	<!-- talc:title -->
//
// A Parser turns template files into a tree of Nodes. Partial imports are
// parsed once per Cache and shared between every template that imports them.
// A Renderer walks a tree against document metadata and an optional loop
// context and produces the final text. Partials see the document metadata
// and the content body, but not the enclosing loop element.
package templates

/*
Package templating provides a helper registry over html/template.

A Registry owns a named set of helper functions and keeps it mirrored onto
an injected engine instance. Helper sets arrive through the HelperSource
interface, resolved by name from a Catalog, and one registry's helpers can
be copied onto any number of independent engine instances with ApplyTo.
Compile parses and renders a template string in a single call, with the
registered helpers available and html/template's contextual escaping
applied.
*/
package templating

// Package loader executes a program file into an isolated namespace.
//
// Loading reads the file, parses it as HCL and runs every top-level item in
// source order inside a fresh evaluation context:
//
//   - attributes are evaluated and bound by name,
//   - `import` blocks load another file as its own Unit and bind its
//     namespace as an object,
//   - `program` blocks declare a program unit, register it with the
//     Registrar and bind it by name.
//
// Registration is the only effect a load has outside the returned Unit.
package loader

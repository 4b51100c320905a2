// Package pitch models a pitch submission on the client: the reference
// catalog (release types, packages, platforms, pitch types, territories), the
// in-progress Draft, and the six-step Wizard that collects it and hands the
// finished multipart form to the pitch service.
//
// Moving between steps never validates. Submit checks the required release
// fields, both media files and the package before any network call, and a
// failed submission leaves the draft intact for a retry.
package pitch

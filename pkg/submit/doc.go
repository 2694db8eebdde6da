// Package submit implements the form submit handlers: it intercepts a submit
// event, clears previous feedback, posts the form as JSON, and paints the
// validation errors returned by the endpoint onto the tracked fields. Failed
// renders arm a one-shot acknowledgement: the first click on a marked input
// clears the feedback of every tracked field.
//
// Two profiles ship with the package. LoginProfile posts to /login, expects
// 200 and fans a lone __all__ error out to every field; RegisterProfile posts
// to /register, expects 201 and only renders per-field errors.
package submit

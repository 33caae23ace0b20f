/*
Package session keeps track of a browser between requests.

A Session names the browser with an ID the application state is filed under,
remembers the state parameter of a sign in that is underway,
and carries flash messages from one request to the next.

Sessions live in cookies by default, or in Redis with WithRedis.
*/
package session

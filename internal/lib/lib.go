// Package lib holds clients for the outside services the app talks to.
//
// Each subpackage wraps one provider behind a small typed API:
//   - httpclient builds the shared outbound resty client
//   - serper fetches "People Also Ask" questions
//   - gemini sends prompts to the Gemini generateContent API
package lib

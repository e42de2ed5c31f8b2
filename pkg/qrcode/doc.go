// Package qrcode renders QR code images for TOTP enrollment. Generation
// is a pure function of its input: the provisioning URI goes in, PNG bytes
// (or a base64 data URI) come out.
package qrcode

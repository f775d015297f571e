/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package fontshuffle

import "errors"

var (
	// ErrVerify is returned when an obfuscated font is rejected by the independent sfnt parser
	// or does not render the obfuscated text.
	ErrVerify = errors.New("font verification failed")

	// ErrNoSelection is returned by ObfuscateHTML when the selector matches no element.
	ErrNoSelection = errors.New("selector matches no element")
)

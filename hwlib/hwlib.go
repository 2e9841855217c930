// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides small clocked device models to be used as devices
// under test. Bus attached models live in their protocol package.
//
package hwlib

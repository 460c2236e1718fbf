// Package driver models drivers: the Driver aggregate and its duty Status.
package driver

// Package disc handles optical drive interaction: tray status ioctls,
// eject, and waiting for media insertion via udev netlink events.
package disc
